package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/formatter"
	"github.com/desertthunder/tunebase/internal/ui"
)

// PlaylistsExport renders a playlist with the formatter, to --output or stdout.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	svc, caller, err := r.operator(ctx)
	if err != nil {
		return err
	}

	export, err := svc.Playlists.Export(ctx, caller, cmd.String("id"))
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		data, err := formatter.Export(export, format)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	path, err := formatter.WriteExport(export, format, output)
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "id", export.Playlist.ID, "format", format, "songs", len(export.Entries))
	return r.writePlain("%s\n", ui.Success("✓ exported to "+path))
}
