/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/flowkit/internal/config"
	"github.com/josephgoksu/flowkit/internal/llm"
	"github.com/josephgoksu/flowkit/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newAIWCmd builds the aiw (AI workflow) command tree.
func newAIWCmd(c *cli) *cobra.Command {
	root := c.newRootCmd(
		"aiw asks an AI model for help, optionally in the voice of a persona.",
		`aiw sends a prompt to a chat model. With --persona the persona document
(installed project copy first, then the built-in one) is sent as the
system message so the answer takes that role's point of view.

Providers: openai, anthropic, ollama, gemini and generic (any
OpenAI-compatible endpoint, requires --base-url).`,
	)
	root.AddCommand(newAskCmd(c), newProvidersCmd(c))
	return root
}

func newAskCmd(c *cli) *cobra.Command {
	var (
		o           config.LLMOverrides
		personaName string
	)
	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Send a prompt to the configured AI provider",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				if !c.interactive() {
					return fmt.Errorf("a prompt is required")
				}
				var err error
				if prompt, err = c.asker.Text("Prompt", "", ui.Required("a prompt")); err != nil {
					return c.report(out, err)
				}
			}
			c.crash.SetLastInput(prompt)

			req := llm.Request{Prompt: prompt}
			if personaName != "" {
				store, err := c.personas()
				if err != nil {
					return err
				}
				p, err := store.Get(c.paths.Root, personaName)
				if err != nil {
					return c.report(out, err)
				}
				req.Persona = p.Content
			}

			llmCfg, err := config.LoadLLMConfig(c.cfg, o, c.getenv)
			if err != nil {
				return err
			}
			chatModel, err := c.newChatModel(cmd.Context(), llmCfg)
			if err != nil {
				return err
			}
			client := llm.NewClientWithModel(chatModel, llmCfg, c.log)
			c.log.Debug("asking", zap.String("provider", string(llmCfg.Provider)), zap.String("model", client.Model()))

			label := fmt.Sprintf("Asking %s (%s)...", llmCfg.Provider, client.Model())
			answer, err := ui.RunWithSpinner(cmd.Context(), cmd.ErrOrStderr(), label, func(ctx context.Context) (string, error) {
				return client.Complete(ctx, req)
			})
			if err != nil {
				return c.report(out, err)
			}

			if c.interactive() {
				fmt.Fprintln(out, ui.StyleAnswerBox.Render(answer))
				return nil
			}
			fmt.Fprintln(out, answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&o.Provider, "provider", "", "LLM provider (openai, anthropic, ollama, gemini, generic)")
	cmd.Flags().StringVar(&o.Model, "model", "", "model to use (default depends on the provider)")
	cmd.Flags().StringVar(&o.BaseURL, "base-url", "", "API base URL (required for generic)")
	cmd.Flags().StringVarP(&personaName, "persona", "p", "", "persona to answer as")
	return cmd
}

func newProvidersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported AI providers and whether they are configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			t := &ui.Table{Headers: []string{"Provider", "Name", "Default model", "API key", "Base URL"}}
			for _, p := range llm.GetProviders() {
				key := "not needed"
				if p.RequiresAPIKey {
					key = "missing"
					configured := ""
					if c.cfg.LLM.Provider == string(p.ID) {
						configured = c.cfg.LLM.APIKey
					}
					if llm.ResolveAPIKey(p.ID, configured, c.getenv) != "" {
						key = "set"
					}
				}
				base := p.BaseURL
				if p.RequiresURL {
					base = "(--base-url)"
				}
				id := string(p.ID)
				if id == c.cfg.LLM.Provider {
					id += " *"
				}
				t.Rows = append(t.Rows, []string{id, p.DisplayName, p.DefaultModel, key, base})
			}
			fmt.Fprint(out, t.Render())
			ui.Hint(out, "* configured provider")
			return nil
		},
	}
}
