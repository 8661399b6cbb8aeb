package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mdblog/app/config"
	"mdblog/app/content"
	"mdblog/app/controllers"
	"mdblog/app/logger"
	"mdblog/app/markdown"
)

const cliVersion = "1.0.0"

var errCheckFailed = errors.New("content check failed")

// cli carries the state shared by all subcommands of one invocation.
type cli struct {
	v          *viper.Viper
	configFile string
	out        io.Writer
	errOut     io.Writer
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, out, errOut io.Writer) int {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the mdblog command with all subcommands attached.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "mdblog",
		Short:         "Serve a directory of markdown posts as a blog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "Config file (yaml, json or toml)")
	flags.String("content-root", "", "Directory holding the markdown posts")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	c.bind("content.root", flags.Lookup("content-root"))
	c.bind("logger.level", flags.Lookup("log-level"))

	root.AddCommand(
		c.newServeCommand(),
		c.newRenderCommand(),
		c.newCheckCommand(),
		newVersionCommand(),
	)
	return root
}

func (c *cli) bind(key string, flag *pflag.Flag) {
	if err := c.v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// setup loads the configuration and builds the logger for a subcommand.
func (c *cli) setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(c.v, c.configFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func (c *cli) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the blog server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := c.setup()
			if err != nil {
				return err
			}
			defer log.Close()

			app, err := NewApp(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Infow("starting blog service",
				"addr", cfg.Server.Addr,
				"content_root", cfg.Content.Root,
				"metrics", cfg.Metrics.Enabled,
			)
			return app.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address, e.g. :4567")
	cmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on --metrics-addr")
	cmd.Flags().String("metrics-addr", "", "Listen address for the metrics endpoint")
	c.bind("server.addr", cmd.Flags().Lookup("addr"))
	c.bind("metrics.enabled", cmd.Flags().Lookup("metrics"))
	c.bind("metrics.addr", cmd.Flags().Lookup("metrics-addr"))

	return cmd
}

func (c *cli) newRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <post_id>",
		Short: "Print the rendered page of a post",
		Long:  "Print the rendered page of a post. When the post does not exist the not-found page is printed and the command fails.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := c.setup()
			if err != nil {
				return err
			}
			defer log.Close()

			resolver, err := content.NewResolver(cfg.Content.Root)
			if err != nil {
				return err
			}
			posts := controllers.NewPostController(resolver, markdown.NewRenderer(), Options(cfg), log)

			page, err := posts.PostPage(cmd.Context(), args[0])
			if errors.Is(err, controllers.ErrPostNotFound) {
				if notFound, nfErr := posts.NotFoundPage(cmd.Context()); nfErr == nil {
					fmt.Fprint(c.out, notFound)
				}
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprint(c.out, page)
			return nil
		},
	}
}

func (c *cli) newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the content root holds the default post and the not-found document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := c.setup()
			if err != nil {
				return err
			}
			defer log.Close()

			resolver, err := content.NewResolver(cfg.Content.Root)
			if err != nil {
				return err
			}

			checks := []struct {
				label string
				file  string
				err   error
			}{
				{label: "default post", file: cfg.Content.DefaultPost + content.Extension},
				{label: "not-found document", file: cfg.Content.NotFoundFile},
			}
			_, checks[0].err = resolver.Resolve(cmd.Context(), cfg.Content.DefaultPost)
			_, checks[1].err = resolver.ResolveFile(cmd.Context(), cfg.Content.NotFoundFile)

			failed := false
			for _, check := range checks {
				if check.err != nil {
					failed = true
					fmt.Fprintf(c.out, "FAIL %-20s %s: %v\n", check.label, check.file, check.err)
					continue
				}
				fmt.Fprintf(c.out, "ok   %-20s %s\n", check.label, check.file)
			}

			if failed {
				return errCheckFailed
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mdblog version %s\n", cliVersion)
		},
	}
}
