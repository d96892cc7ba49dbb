package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/s3"
)

func newLogoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logo",
		Short: "Upload or delete logos in blob storage",
	}
	cmd.AddCommand(newLogoUploadCmd(), newLogoDeleteCmd())
	return cmd
}

func newLogoUploadCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a PNG, JPEG or GIF logo and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(loadConfig())
			if err != nil {
				return err
			}
			url, err := a.uploadLogo(cmd.Context(), owner, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner id the logo belongs to")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newLogoDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <url>",
		Short: "Delete a previously uploaded logo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(loadConfig())
			if err != nil {
				return err
			}
			if err := a.requireBlob(); err != nil {
				return err
			}
			return a.blob.Delete(cmd.Context(), args[0])
		},
	}
}

func (a *app) requireBlob() error {
	if a.blob == nil {
		return ierr.NewError("blob storage is disabled").
			WithHint("Enable s3 in the configuration to manage logos").
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

// uploadLogo applies the same size and type rules as the profile API
func (a *app) uploadLogo(ctx context.Context, ownerID, path string) (string, error) {
	if err := a.requireBlob(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", ierr.WithError(err).
			WithHintf("Could not read %s", path).
			Mark(ierr.ErrNotFound)
	}

	file := &s3.File{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}
	if err := s3.ValidateImage(file, a.cfg.S3.MaxUploadBytes); err != nil {
		return "", err
	}

	url, err := a.blob.Upload(ctx, ownerID, file)
	if err != nil {
		return "", err
	}
	a.log.Infow("uploaded logo", "owner_id", ownerID, "url", url, "bytes", len(data))
	return url, nil
}
