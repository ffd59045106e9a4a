package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-storeadmin"
	pkgopenapi "github.com/goliatone/go-storeadmin/pkg/openapi"
)

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [document...]",
		Short: "Check API documents against the entity forms",
		Long: `lint parses each OpenAPI document, a file path or URL, and reports request
schemas that disagree with the forms of the entity catalog. Without
arguments it checks the built-in document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd.Context(), args)
			if err != nil {
				return err
			}
			failed := false
			for _, doc := range docs {
				drift, err := storeadmin.CheckDocument(cmd.Context(), doc, a.catalog)
				if err != nil {
					return err
				}
				if len(drift) == 0 {
					fmt.Fprintf(a.out, "%s: ok\n", doc.Location())
					continue
				}
				failed = true
				for _, d := range drift {
					fmt.Fprintf(a.out, "%s: %s\n", doc.Location(), d)
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
}

func loadDocuments(ctx context.Context, args []string) ([]pkgopenapi.Document, error) {
	if len(args) == 0 {
		return []pkgopenapi.Document{pkgopenapi.StoreAPI()}, nil
	}
	loader := storeadmin.NewLoader(pkgopenapi.WithHTTPFallback(10 * time.Second))
	docs := make([]pkgopenapi.Document, 0, len(args))
	for _, arg := range args {
		src, err := pkgopenapi.SourceFor(arg)
		if err != nil {
			return nil, err
		}
		doc, err := loader.Load(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", arg, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
