package cli

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/iudanet/brainrot/internal/validation"
	"github.com/iudanet/brainrot/pkg/api"
)

func newGenerateCommand(cmdCtx *commandContext) *cobra.Command {
	var background string
	var topic string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new clip",
		Long:  "Generate a new clip. The request can take up to two minutes while the AI service renders the video.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Валидируем локально, чтобы не гонять заведомо плохой запрос
			if err := validation.ValidateBackgroundVideo(background); err != nil {
				return err
			}
			if err := validation.ValidateTopic(topic); err != nil {
				return err
			}

			client, _, err := cmdCtx.authenticatedClient(cmd.Context())
			if err != nil {
				return err
			}

			cmdCtx.io.Println("Generating clip, this can take a couple of minutes...")

			resp, err := client.Generate(cmd.Context(), api.GenerateClipRequest{
				BackgroundVideo: background,
				Topic:           topic,
			})
			if err != nil {
				return err
			}

			cmdCtx.io.Printf("Clip ready: %s\n", resp.VideoURL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&background, "background", "b", "", "background video: minecraft, subway_surfers, gta_v")
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "clip topic, up to 500 characters")
	_ = cmd.MarkFlagRequired("background")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func newClipsCommand(cmdCtx *commandContext) *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "clips",
		Short: "List generated clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp *api.ClipsResponse
			var err error

			if mine {
				client, _, clientErr := cmdCtx.authenticatedClient(cmd.Context())
				if clientErr != nil {
					return clientErr
				}
				resp, err = client.MyClips(cmd.Context())
			} else {
				// Публичная лента, токен не нужен
				resp, err = cmdCtx.anonymousClient().Clips(cmd.Context())
			}
			if err != nil {
				return err
			}

			if len(resp.Clips) == 0 {
				cmdCtx.io.Println("No clips yet")
				return nil
			}

			cmdCtx.io.Println(renderClipsTable(resp.Clips))
			return nil
		},
	}

	cmd.Flags().BoolVar(&mine, "mine", false, "show only your own clips")

	return cmd
}

// renderClipsTable форматирует клипы в виде таблицы
func renderClipsTable(clips []api.Clip) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"CREATED", "USER", "URL"})

	for _, clip := range clips {
		created := clip.CreatedAt
		if ts, err := time.Parse(time.RFC3339, clip.CreatedAt); err == nil {
			created = ts.Local().Format("2006-01-02 15:04")
		}
		tw.AppendRow(table.Row{created, clip.GeneratedBy.Username, clip.VideoURL})
	}

	return tw.Render()
}
