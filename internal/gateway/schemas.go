package gateway

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/dmitrymomot/apigate/pkg/validator"
)

// Schema names the auth handlers depend on.
const (
	SchemaRegister = "register"
	SchemaLogin    = "login"
)

//go:embed schemas/*.yaml
var builtinSchemas embed.FS

// LoadSchemas returns the embedded schemas overlaid with every schema file
// found in dir. A file in dir replaces the embedded schema of the same name.
func LoadSchemas(dir string) (map[string]validator.Schema, error) {
	schemas, err := loadEmbedded(builtinSchemas)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return schemas, nil
	}

	custom, err := validator.LoadSchemaDir(dir)
	if err != nil {
		return nil, err
	}
	for name, s := range custom {
		schemas[name] = s
	}
	return schemas, nil
}

func loadEmbedded(fsys fs.FS) (map[string]validator.Schema, error) {
	files, err := fs.Glob(fsys, "schemas/*.yaml")
	if err != nil {
		return nil, err
	}

	schemas := make(map[string]validator.Schema, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		s, err := validator.ParseSchemaYAML(data)
		if err != nil {
			return nil, fmt.Errorf("embedded %s: %w", file, err)
		}
		schemas[strings.TrimSuffix(path.Base(file), path.Ext(file))] = s
	}
	return schemas, nil
}
