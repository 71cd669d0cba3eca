package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/tinywasm/unixid"
	"golang.org/x/oauth2"
)

// RequestError reports a response that arrived but signaled failure, e.g.
// bad credentials or a duplicate account. The draft that produced it is
// always retained.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	msg := "request rejected: status " + strconv.Itoa(e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, hc *http.Client) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// postJSON sends one JSON request and decodes the response into out.
func (c *apiClient) postJSON(ctx context.Context, path string, payload, out any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.send(ctx, path, "application/json", bytes.NewReader(buf), "", out)
}

// postMultipart sends one multipart request: each scalar field as a named
// part and, when a picture is staged, its bytes under "picture" plus the
// file name duplicated as a plain "picturePath" part. The duplication is
// deliberate: the server does not trust multipart filename metadata.
func (c *apiClient) postMultipart(ctx context.Context, path string, fields [][2]string, picture Attachment, staged bool, token string, out any) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	if staged {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="picture"; filename="`+escapeQuotes(picture.Name)+`"`)
		h.Set("Content-Type", picture.MIMEType())
		part, err := w.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := part.Write(picture.Data); err != nil {
			return err
		}
		if err := w.WriteField("picturePath", picture.Name); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.send(ctx, path, w.FormDataContentType(), &body, token, out)
}

// send issues exactly one request and awaits the single response. There
// is no timeout or abort of its own: a hung request leaves the caller's
// draft staged until the transport gives up.
func (c *apiClient) send(ctx context.Context, path, contentType string, body io.Reader, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	u, err := unixid.NewUnixID()
	if err != nil {
		return err
	}
	req.Header.Set("X-Request-ID", u.GetNewID())

	client := c.http
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.http), src)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Message: serverMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return ErrInvalidResponse
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// serverMessage pulls a human-readable reason out of a failure body.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Msg
}
