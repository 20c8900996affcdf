package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"recap-backend/config"
	"recap-backend/models"
	"recap-backend/repository"
	"recap-backend/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "caselaw",
		Short:         "Search CourtListener case law and print the model context",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSearchCmd())
	root.AddCommand(newProfilesCmd())
	return root
}

type searchFlags struct {
	profile     string
	direct      bool
	limit       int
	court       string
	orderBy     string
	filedAfter  string
	filedBefore string
	asJSON      bool
	verbose     bool
}

func newSearchCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Resolve cases for a question and print the formatted context",
		Long: `Runs the same query escalation the chat endpoint uses and prints the
formatted case context. With --direct the query is sent to CourtListener as-is
and the filter flags apply.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), flags)
		},
	}

	cmd.Flags().StringVar(&flags.profile, "profile", "", "domain profile (defaults to DOMAIN_PROFILE)")
	cmd.Flags().BoolVar(&flags.direct, "direct", false, "search the query as-is without escalation")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "maximum cases to return (defaults to SEARCH_LIMIT)")
	cmd.Flags().StringVar(&flags.court, "court", "", "restrict a direct search to a court id")
	cmd.Flags().StringVar(&flags.orderBy, "order-by", "", "result ordering for a direct search")
	cmd.Flags().StringVar(&flags.filedAfter, "filed-after", "", "only cases filed after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.filedBefore, "filed-before", "", "only cases filed before this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print normalized records as JSON")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log provider calls to stderr")
	return cmd
}

func runSearch(cmd *cobra.Command, query string, flags searchFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.profile != "" {
		cfg.ProfileName = flags.profile
	}
	if flags.limit > 0 {
		cfg.SearchLimit = flags.limit
	}

	level := "warn"
	if flags.verbose {
		level = "debug"
	}
	logger, err := config.NewLogger(level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	profile, err := cfg.Profile()
	if err != nil {
		return err
	}

	caseService := service.NewCaseService(
		service.CaseWithSearcher(repository.NewCourtListenerRepository(cfg.CourtListener, logger)),
		service.CaseWithProfile(profile),
		service.CaseWithLimit(cfg.SearchLimit),
		service.CaseWithTimeout(cfg.CourtListener.Timeout),
		service.CaseWithLogger(logger),
	)

	ctx := cmd.Context()
	var cases []models.CaseRecord
	var casesContext string

	if flags.direct {
		result, err := caseService.SearchCases(ctx, service.SearchCasesRequest{
			Query: query,
			Options: models.SearchOptions{
				OrderBy:     flags.orderBy,
				Court:       flags.court,
				FiledAfter:  flags.filedAfter,
				FiledBefore: flags.filedBefore,
			},
		})
		if err != nil {
			return err
		}
		cases, casesContext = result.Cases, result.Context
	} else {
		cases, err = caseService.ResolveCases(ctx, query)
		if err != nil {
			return err
		}
		casesContext = service.FormatContext(cases)
	}

	logger.Debug("search complete", zap.Int("cases", len(cases)))

	out := cmd.OutOrStdout()
	if flags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cases)
	}
	_, err = fmt.Fprintln(out, casesContext)
	return err
}

func newProfilesCmd() *cobra.Command {
	var profilesFile string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the available domain profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if profilesFile == "" {
				profilesFile = os.Getenv("DOMAIN_PROFILES_FILE")
			}
			profiles, err := config.LoadProfiles(profilesFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range config.ProfileNames(profiles) {
				p := profiles[name]
				fmt.Fprintf(out, "%s\t%s\n", p.Name, p.Subject)
				fmt.Fprintf(out, "  specific: %s\n", p.SpecificQuery)
				fmt.Fprintf(out, "  broad:    %s\n", p.BroadQuery)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profilesFile, "file", "", "YAML profiles file (defaults to DOMAIN_PROFILES_FILE)")
	return cmd
}
