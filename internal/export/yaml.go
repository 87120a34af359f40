package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func ToYAML(data Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create yaml file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(buildDocument(data)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
