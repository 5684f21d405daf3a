package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// client is shared by the commands that talk to the node.
var client = http.Client{
	Timeout: 10 * time.Second,
}

// get calls the node public api and returns the response body.
func get(path string) (json.RawMessage, error) {
	resp, err := client.Get(url + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var er struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
			return nil, fmt.Errorf("node: %s", er.Error)
		}
		return nil, fmt.Errorf("node: status %d", resp.StatusCode)
	}

	return body, nil
}

// printJSON writes the value indented the same way the node stores it.
func printJSON(w io.Writer, data json.RawMessage) error {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "    "); err != nil {
		return err
	}
	out.WriteByte('\n')

	_, err := out.WriteTo(w)
	return err
}

// show fetches the path and prints the result.
func show(w io.Writer, path string) error {
	data, err := get(path)
	if err != nil {
		return err
	}

	return printJSON(w, data)
}
