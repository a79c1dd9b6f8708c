package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fairpay/award-engine/api"
	"github.com/fairpay/award-engine/catalog"
)

var (
	awardsCode     string
	docsIndustry   string
	docsQuery      string
	docsLiveSearch bool
)

var awardsCmd = &cobra.Command{
	Use:   "awards",
	Short: "List awards in the registry",
	Long: `Lists awards in registry order with their effective weekend and
public holiday multipliers. "standard" means the award defines no
penalty table of its own.

With --code, lists that award's classifications instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, store, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if awardsCode != "" {
			a, err := reg.Get(awardsCode)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(fmt.Sprintf("%s (%s)", a.Name, a.Code)))
			renderClassifications(cmd.OutOrStdout(), a)
			return nil
		}
		renderAwards(cmd.OutOrStdout(), reg.List())
		return nil
	},
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List pay guide documents",
	Long: `Lists the built-in library of Modern Award pay guides, filtered by
industry and a free-text query on title, code and description.

With --search the query is sent to the assistant's live web search
instead (needs GEMINI_API_KEY).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if docsLiveSearch {
			if strings.TrimSpace(docsQuery) == "" {
				return fmt.Errorf("--query is required with --search")
			}
			gemini, err := newAssistant(cmd.Context())
			if err != nil {
				return err
			}
			docs, err := gemini.FindDocuments(cmd.Context(), docsQuery)
			if err != nil {
				return err
			}
			renderDocuments(cmd.OutOrStdout(), docs)
			return nil
		}

		all := catalog.Documents()
		if docsIndustry != "" && !validIndustry(all, docsIndustry) {
			return fmt.Errorf("unknown industry %q (valid: %s)", docsIndustry, strings.Join(catalog.Industries(all), ", "))
		}
		renderDocuments(cmd.OutOrStdout(), catalog.Filter(all, docsIndustry, docsQuery))
		return nil
	},
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List sample weeks usable with calc --scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		renderScenarios(cmd.OutOrStdout(), api.Scenarios())
		return nil
	},
}

func init() {
	awardsCmd.Flags().StringVar(&awardsCode, "code", "", "Show one award's classifications")

	documentsCmd.Flags().StringVarP(&docsIndustry, "industry", "i", "", "Industry filter (\"All\" for any)")
	documentsCmd.Flags().StringVarP(&docsQuery, "query", "q", "", "Free-text filter")
	documentsCmd.Flags().BoolVar(&docsLiveSearch, "search", false, "Search the web via the assistant")
}

func validIndustry(docs []catalog.Document, industry string) bool {
	if industry == "All" {
		return true
	}
	for _, i := range catalog.Industries(docs) {
		if i == industry {
			return true
		}
	}
	return false
}
