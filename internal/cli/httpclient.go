package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

func httpDoJSON(out io.Writer, method, url string, body []byte, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if showCurl {
		fmt.Fprintln(out, curlFor(method, url, body, headers))
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return b, resp.StatusCode, nil
}

func curlFor(method, url string, body []byte, headers map[string]string) string {
	sb := &bytes.Buffer{}
	fmt.Fprintf(sb, "curl -i -X %s '%s'", method, url)
	for k, v := range headers {
		fmt.Fprintf(sb, " -H %q", fmt.Sprintf("%s: %s", k, v))
	}
	if len(body) > 0 {
		fmt.Fprintf(sb, " --data-raw '%s'", body)
	}
	return sb.String()
}

func printJSON(out io.Writer, b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		// not JSON, print raw
		fmt.Fprintln(out, string(b))
		return nil
	}
	return writeJSON(out, v)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
