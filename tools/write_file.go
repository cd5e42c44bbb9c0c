package tools

import (
	"encoding/json"
	"fmt"

	"github.com/sidekick-cli/sidekick/internal/fsops"
)

type WriteFileInput struct {
	Path    string `json:"path" jsonschema_description:"Relative path of the file to write. Parent directories are created as needed."`
	Content string `json:"content" jsonschema_description:"Full content to write. An existing file is overwritten."`
}

var WriteFileDefinition = ToolDefinition{
	Name:        "write_file",
	Description: "Create or overwrite a text file addressed by a relative path within the workspace. Protected files and directories are refused.",
	InputSchema: WriteFileInputSchema,
	Function:    WriteFile,
}

var WriteFileInputSchema = GenerateSchema[WriteFileInput]()

// WriteFile writes the given content through the fsops sandbox and reports
// how much was written so the model can confirm the operation.
func WriteFile(input json.RawMessage) (string, error) {
	var in WriteFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if in.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if err := fsops.WriteFile(in.Path, in.Content); err != nil {
		return "", err
	}
	return fmt.Sprintf("Wrote %d bytes to %s", len(in.Content), in.Path), nil
}
