package main

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/quillpress/quillpress-server/internal/api"
)

func newOpenAPICmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			injector := g.container()
			defer injector.Shutdown()

			server, err := do.Invoke[*api.Server](injector)
			if err != nil {
				return err
			}
			defer server.Close()

			doc := server.API().OpenAPI()
			var out []byte
			if asJSON {
				out, err = doc.MarshalJSON()
			} else {
				out, err = doc.YAML()
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of YAML")
	return cmd
}
