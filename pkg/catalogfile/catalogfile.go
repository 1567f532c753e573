// Package catalogfile reads and validates catalog seed files, the JSON
// documents that populate the teams and players reference tables.
package catalogfile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"gridiron-workers/internal/models"
)

// File is the on-disk seed document.
type File struct {
	Version   string          `json:"version"`
	UpdatedAt string          `json:"updatedAt"`
	Teams     []models.Team   `json:"teams"`
	Players   []models.Player `json:"players"`
}

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "teams", "players"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "updatedAt": {"type": "string"},
    "teams": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "fullName", "city", "nickname", "abbreviation"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "fullName": {"type": "string", "minLength": 1},
          "city": {"type": "string", "minLength": 1},
          "nickname": {"type": "string", "minLength": 1},
          "abbreviation": {"type": "string", "minLength": 2, "maxLength": 4},
          "aliases": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "players": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "fullName", "position"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "fullName": {"type": "string", "minLength": 1},
          "position": {"type": "string", "minLength": 1},
          "teamId": {"type": "string"},
          "aliases": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

// Load reads a seed file, checks it against the schema, and decodes it.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse validates and decodes seed document bytes.
func Parse(raw []byte) (*File, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate seed file: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("seed file schema violations: %s", strings.Join(problems, "; "))
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &file, nil
}
