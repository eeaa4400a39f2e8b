package motionjson

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseMotionData parses motion JSON content and returns the document.
// Structural validation beyond JSON well-formedness (segment type codes,
// declared counts) is performed by the motion package when the document is
// flattened into runtime data.
func ParseMotionData(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse motion json: %w", err)
	}
	return &doc, nil
}

// ParseMotionFile parses a motion JSON file and returns the document.
//
// Example:
//
//	doc, err := motionjson.ParseMotionFile("assets/motions/Idle.motion3.json")
//	if err != nil {
//	    log.Fatalf("Failed to parse motion: %v", err)
//	}
//	fmt.Printf("Duration: %.2fs\n", doc.Meta.Duration)
func ParseMotionFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read motion file '%s': %w", path, err)
	}

	doc, err := ParseMotionData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse motion file '%s': %w", path, err)
	}
	return doc, nil
}
