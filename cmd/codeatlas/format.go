package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const timeRound = time.Millisecond

// printJSON writes the value to stdout as indented JSON. Every read command
// renders through here.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
