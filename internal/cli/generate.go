package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"llamapanama/internal/session"
)

func newGenerateCmd(g *globals) *cobra.Command {
	var (
		model, prompt, grammar string
		ctxSize, threads       int
		maxTokens              int
		temp, topP             float32
		topK                   int32
		seed                   int32
	)
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Stream a completion for a prompt",
		Example: "  lpcli generate --model tinyllama.Q4_K_M.gguf --prompt \"Hello\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			if prompt == "" {
				return fmt.Errorf("--prompt is required")
			}
			eng, h, cleanup, err := g.openModel(model)
			if err != nil {
				return err
			}
			defer cleanup()

			p := g.cfg.SamplerDefaults()
			flags := cmd.Flags()
			if flags.Changed("max-tokens") {
				p.MaxTokens = maxTokens
			}
			if flags.Changed("temp") {
				p.Temperature = temp
			}
			if flags.Changed("top-p") {
				p.TopP = topP
			}
			if flags.Changed("top-k") {
				p.TopK = topK
			}
			if flags.Changed("seed") {
				p.Seed = seed
			}
			if flags.Changed("grammar") {
				p = p.WithGrammar(grammar)
			}
			if !flags.Changed("ctx") {
				ctxSize = g.cfg.ContextSize
			}
			if !flags.Changed("threads") {
				threads = g.cfg.Threads
			}

			sess, err := session.New(eng, h, session.Options{Params: p, ContextSize: ctxSize, Threads: threads, Logger: &g.log})
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Prompt: %s\n", prompt)
			fmt.Fprint(out, "Response: ")
			st, err := sess.Stream(cmd.Context(), prompt, func(chunk string) error {
				_, err := fmt.Fprint(out, chunk)
				return err
			})
			fmt.Fprintln(out)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "first_token=%.2fms tokens_per_sec=%.2f total=%.2fms emitted=%d\n",
				st.FirstTokenMs, st.TokensPerSecond, st.TotalMs, st.TokensEmitted)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&model, "model", "", "Model file path or id under the models dir")
	f.StringVar(&prompt, "prompt", "", "Prompt text")
	f.IntVar(&ctxSize, "ctx", 512, "Context size in tokens")
	f.IntVar(&threads, "threads", 0, "Worker threads (default: config or CPU count)")
	f.IntVar(&maxTokens, "max-tokens", 128, "Maximum tokens to generate (default from config sampler block)")
	f.Float32Var(&temp, "temp", 0.8, "Sampling temperature (default from config)")
	f.Float32Var(&topP, "top-p", 0.95, "Nucleus sampling probability")
	f.Int32Var(&topK, "top-k", 40, "Top-K sampling")
	f.Int32Var(&seed, "seed", 42, "Sampler seed")
	f.StringVar(&grammar, "grammar", "", "Optional GBNF grammar")
	return cmd
}

func newEmbedCmd(g *globals) *cobra.Command {
	var model, prompt string
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Print the embedding vector of a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, h, cleanup, err := g.openModel(model)
			if err != nil {
				return err
			}
			defer cleanup()
			sess, err := session.New(eng, h, session.Options{ContextSize: g.cfg.ContextSize, Threads: g.cfg.Threads, Logger: &g.log})
			if err != nil {
				return err
			}
			defer sess.Close()
			vec, err := sess.Embed(prompt)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Embeddings (dim=%d):\n", len(vec))
			for i, v := range vec {
				if i > 0 {
					fmt.Fprint(out, ", ")
				}
				fmt.Fprintf(out, "%.4f", v)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Model file path or id under the models dir")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Text to embed")
	return cmd
}

func newTokenizeCmd(g *globals) *cobra.Command {
	var (
		model, text string
		bos         bool
	)
	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Print token ids and pieces for text",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, h, cleanup, err := g.openModel(model)
			if err != nil {
				return err
			}
			defer cleanup()
			buf := make([]int32, g.cfg.ContextSize)
			n, err := eng.Tokenize(h, text, bos, buf)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range buf[:n] {
				piece, err := eng.Piece(h, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\t%s\n", id, strconv.Quote(piece))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Model file path or id under the models dir")
	cmd.Flags().StringVar(&text, "text", "", "Text to tokenize")
	cmd.Flags().BoolVar(&bos, "bos", false, "Prepend the beginning-of-sequence token")
	return cmd
}
