package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fairpay/award-engine/assistant"
	"github.com/fairpay/award-engine/ingest"
)

var ingestStrict bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Extract an award from a pay guide and add it to the registry",
	Long: `Sends a pay guide (PDF or text) to the assistant, parses the
extracted award and upserts it into the registry. An award with the
same code is replaced wholesale and keeps its position.

Validation problems are printed as warnings. With --strict an award
with problems is rejected and the registry is left unchanged.

Example:
  fairpay ingest ./MA000004-pay-guide.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestStrict, "strict", false, "Reject awards with validation problems")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	gemini, err := newAssistant(ctx)
	if err != nil {
		return err
	}
	reg, store, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	ingestCtx, cancel := context.WithTimeout(ctx, cfg.GetJobTimeout())
	defer cancel()

	in := &ingest.Ingester{
		Extractor: gemini,
		Registry:  reg,
		Parser:    ingest.Parser{Strict: cfg.Ingest.Strict || ingestStrict},
	}
	res, err := in.Ingest(ingestCtx, doc)
	out := cmd.OutOrStdout()
	for _, p := range res.Problems {
		fmt.Fprintln(out, mutedStyle.Render("warning: "+p.String()))
	}
	if err != nil {
		return err
	}

	logger.Info("award ingested",
		zap.String("document", doc.Name),
		zap.String("code", res.Award.Code),
		zap.Int("problems", len(res.Problems)))
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s)", res.Award.Name, res.Award.Code)))
	renderClassifications(out, res.Award)
	return nil
}

// readDocument loads path and guesses its MIME type from the extension,
// falling back to content sniffing.
func readDocument(path string) (ingest.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ingest.Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mt
	}
	return ingest.Document{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Data:     data,
	}, nil
}

func newAssistant(ctx context.Context) (*assistant.Gemini, error) {
	if !cfg.HasAssistant() {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY or gemini.api_key", assistant.ErrNotConfigured)
	}
	return assistant.NewGemini(ctx, assistant.GeminiConfig{
		APIKey:           cfg.Gemini.APIKey,
		Model:            cfg.Gemini.Model,
		MaxDocumentChars: cfg.Gemini.MaxDocumentChars,
	}, logger)
}
