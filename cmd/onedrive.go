package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/orometrisi/internal/msgraph"
)

var onedriveOut string

var onedriveCmd = &cobra.Command{
	Use:   "onedrive",
	Short: "Move workbooks to and from OneDrive",
}

var onedriveGetCmd = &cobra.Command{
	Use:   "get <remote-path>",
	Short: "Download a workbook from OneDrive",
	Args:  cobra.ExactArgs(1),
	RunE:  runOnedriveGet,
}

var onedrivePutCmd = &cobra.Command{
	Use:   "put <local-file> [remote-path]",
	Short: "Upload a workbook to OneDrive",
	Long: `put uploads a local workbook. Without a remote path the file keeps its
name inside the configured OneDrive folder.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runOnedrivePut,
}

func init() {
	onedriveGetCmd.Flags().StringVarP(&onedriveOut, "out", "o", "", "Local file; defaults to the remote file name")
	onedriveCmd.AddCommand(onedriveGetCmd)
	onedriveCmd.AddCommand(onedrivePutCmd)
}

// graphClient authenticates with the configured tenant and app.
func graphClient(ctx context.Context, tenantID, clientID string) *msgraph.Client {
	tok, oc, err := msgraph.Authenticate(ctx, tenantID, clientID, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}
	return msgraph.NewClient(ctx, tok, oc)
}

func runOnedriveGet(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := context.Background()
	remote := msgraph.RemotePath(cfg.OneDrive.Folder, args[0])

	client := graphClient(ctx, cfg.OneDrive.TenantID, cfg.OneDrive.ClientID)
	res, err := msgraph.Fetch(ctx, client, remote, onedriveOut)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("  ✓ Downloaded: %s → %s (%d bytes)\n", res.Remote, res.Local, res.Bytes)
	return nil
}

func runOnedrivePut(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := context.Background()
	local := args[0]
	name := filepath.Base(local)
	if len(args) == 2 {
		name = args[1]
	}
	remote := msgraph.RemotePath(cfg.OneDrive.Folder, name)

	client := graphClient(ctx, cfg.OneDrive.TenantID, cfg.OneDrive.ClientID)
	res, err := msgraph.Publish(ctx, client, local, remote)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("  ✓ Uploaded: %s → %s (%d bytes)\n", res.Local, res.Remote, res.Bytes)
	if res.WebURL != "" {
		fmt.Printf("  %s\n", res.WebURL)
	}
	return nil
}
