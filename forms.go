package feed

// LoginData is the draft validated and submitted in login mode.
type LoginData struct {
	Email    string
	Password string
}

// RegisterData is the draft validated and submitted in register mode.
// The required profile picture is staged on the module's Stager, not
// carried here.
type RegisterData struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Location   string
	Occupation string
}

// PostData is the composition draft. The author is resolved from the
// session store when the draft is sent.
type PostData struct {
	Description string
}
