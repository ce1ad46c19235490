package conf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/daddykotex/pdf-edit-bulk/journal"
	"github.com/daddykotex/pdf-edit-bulk/uds"
)

// PrepareUDSService serves the admin commands on sockPath
func (c *Core) PrepareUDSService(sockPath string) {
	c.UDSService = uds.NewService(c.RootCtx, sockPath, c.AdminCommands())
	c.AddService(c.UDSService)
}

// AdminCommands are the commands of the admin socket
func (c *Core) AdminCommands() map[string]uds.CmdHnd {
	return map[string]uds.CmdHnd{
		"status": {
			Desc: "show the app configuration and services",
			Fn:   c.cmdStatus,
		},
		"reload-templates": {
			Desc: "reload the HTML templates from templates/html",
			Fn: func(_ context.Context, _ []string, w io.Writer) error {
				n, err := c.ReloadTemplates()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(w, "reloaded from %d source(s)\n", n)
				return err
			},
		},
		"recent": {
			Desc:  "list recent merges from the journal",
			Usage: "recent [limit]",
			Fn:    c.cmdRecent,
		},
	}
}

// ReloadTemplates loads templates/html over the current store, so the
// handlers pick up the new pages without a restart.
func (c *Core) ReloadTemplates() (int, error) {
	if c.HTMLTemplateStore == nil {
		return 0, fmt.Errorf("template store not ready")
	}
	dir := filepath.Join(c.AppRoot, "templates", "html")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return 0, nil
	}
	if err := c.HTMLTemplateStore.LoadFS(os.DirFS(dir), "."); err != nil {
		return 0, err
	}
	return 1, nil
}

func (c *Core) cmdStatus(_ context.Context, _ []string, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "app\t%s\n", c.AppName)
	fmt.Fprintf(tw, "listen\t%s\n", c.Listen)
	fmt.Fprintf(tw, "max upload\t%d MB\n", c.MaxUploadMB)
	fmt.Fprintf(tw, "journal\t%T\n", c.Journal)
	switch {
	case !c.Throttle.Enabled():
		fmt.Fprintf(tw, "throttle\toff\n")
	case c.BucketStore != nil:
		fmt.Fprintf(tw, "throttle\tmemory, %d buckets\n", c.BucketStore.Len())
	default:
		fmt.Fprintf(tw, "throttle\tshared\n")
	}
	for _, s := range c.services {
		fmt.Fprintf(tw, "service\t%s\n", s.Name())
	}
	return tw.Flush()
}

func (c *Core) cmdRecent(ctx context.Context, args []string, w io.Writer) error {
	if c.Journal == nil {
		return fmt.Errorf("journal not ready")
	}
	limit := journal.DefaultRecentLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("limit: %w", err)
		}
		limit = n
	}
	entries, err := c.Journal.Recent(ctx, journal.ClampLimit(limit))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSOURCE\tPROJECT\tPAGES\tMATCHED\tMISSING")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.Source, e.Project, e.Pages, e.Matched, e.Missing)
	}
	return tw.Flush()
}
