package export

import (
	"encoding/json"
	"fmt"
	"os"
)

func ToJSON(data Data, path string) error {
	out, err := json.MarshalIndent(buildDocument(data), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
