package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/goliatone/go-storeadmin"
	"github.com/goliatone/go-storeadmin/pkg/model"
	pkgopenapi "github.com/goliatone/go-storeadmin/pkg/openapi"
)

type snapshot struct {
	Source string            `json:"source"`
	Forms  []model.FormModel `json:"forms"`
}

func main() {
	var (
		schemaPath = flag.String("schema", "", "OpenAPI document (default: the embedded store API)")
		outputPath = flag.String("output", "forms.json", "output path for the serialized form models")
	)
	flag.Parse()

	ctx := context.Background()

	doc := pkgopenapi.StoreAPI()
	if *schemaPath != "" {
		src, err := pkgopenapi.SourceFor(*schemaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid schema source: %v\n", err)
			os.Exit(1)
		}
		loaded, err := storeadmin.NewLoader(pkgopenapi.WithHTTPFallback(10 * time.Second)).Load(ctx, src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load schema: %v\n", err)
			os.Exit(1)
		}
		doc = loaded
	}

	forms, err := storeadmin.NewParser().Forms(ctx, doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse forms: %v\n", err)
		os.Exit(1)
	}

	out := snapshot{Source: doc.Location(), Forms: make([]model.FormModel, 0, len(forms))}
	for _, form := range forms {
		out.Forms = append(out.Forms, form)
	}
	sort.Slice(out.Forms, func(i, j int) bool { return out.Forms[i].Entity < out.Forms[j].Entity })

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode forms: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputPath, append(payload, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write snapshot: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Wrote %d form models to %s\n", len(out.Forms), *outputPath)
}
