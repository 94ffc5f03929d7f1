// Package iojson writes JSON command output: indented documents for one-shot
// reports and compact lines for streams.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// marshalFailure builds the fallback error document by hand so that it can
// always be produced.
func marshalFailure(err error) string {
	msg, _ := json.Marshal(err.Error())
	return fmt.Sprintf(`{"message":"cannot encode output","data":{"json_error":%s}}`, msg)
}

// WriteWith writes obj as indented JSON to w. When obj cannot be encoded an
// error document goes to ew instead and nothing is written to w.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, werr := fmt.Fprintln(ew, marshalFailure(err))
		return werr
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as a single line of compact JSON, suitable for
// line-delimited streams.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal json line: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
