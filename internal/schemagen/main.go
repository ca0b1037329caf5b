// Command schemagen writes the JSON schema for composition files.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/macropower/lintcfg/api/v1beta1/compositions"
	"github.com/macropower/lintcfg/pkg/yaml"
)

var (
	outFile = flag.String("o", "schema.json", "Output file for the generated schema")
	root    = flag.String("root", "../../..", "Module root, used to resolve Go comments")
)

func main() {
	flag.Parse()

	out, err := filepath.Abs(*outFile)
	if err != nil {
		log.Fatalf("resolve output path: %v", err)
	}

	err = os.Chdir(*root)
	if err != nil {
		log.Fatalf("change to module root: %v", err)
	}

	gen := yaml.NewSchemaGenerator(compositions.New(),
		"github.com/macropower/lintcfg",
		"./api/v1beta1",
		"./api/v1beta1/compositions",
		"./pkg/compose",
		"./pkg/rule",
	)

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(out, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
