package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/derivacheck/internal/api"
	"github.com/abhisek/derivacheck/internal/checker"
	"github.com/abhisek/derivacheck/internal/diagnosis"
	"github.com/abhisek/derivacheck/internal/llm"
	"github.com/abhisek/derivacheck/internal/symbolic"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the checker over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		maxTerms, _ := cmd.Flags().GetInt("max-terms")
		noSave, _ := cmd.Flags().GetBool("no-save")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := api.Config{Engine: checker.New(checker.Options{MaxTerms: maxTerms})}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if !noSave {
			cfg.Events = s.Events()
		}

		if llmCfg, ok := llm.ResolveConfig(); ok {
			provider, err := llm.NewProvider(ctx, llmCfg, s.Events())
			if err != nil {
				fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			} else {
				cfg.Tutor = diagnosis.NewService(symbolic.Simplifier{MaxTerms: maxTerms}, provider)
			}
		}

		srv, err := api.New(cfg)
		if err != nil {
			return fmt.Errorf("build server: %w", err)
		}
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Int("max-terms", checker.DefaultOptions().MaxTerms, "Simplification budget in terms")
	serveCmd.Flags().Bool("no-save", false, "Do not record checks in history")
}
