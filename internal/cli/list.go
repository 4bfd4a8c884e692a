package cli

import (
	"fmt"
	"strconv"

	"github.com/nace/speedydisk/internal/ramdisk"
	"github.com/nace/speedydisk/internal/system"
	"github.com/nace/speedydisk/internal/ui"
	"github.com/nace/speedydisk/internal/volume"
	"github.com/spf13/cobra"
)

// ListCommand handles listing volumes
type ListCommand struct {
	ctx     *GlobalContext
	verbose bool
	json    bool
}

// volumeStatus is a registered volume joined with its mount table entry
type volumeStatus struct {
	volume.Descriptor
	MountPoint string `json:"mount_point"`
	Filesystem string `json:"filesystem,omitempty"`
	Size       uint64 `json:"size,omitempty"`
	Used       uint64 `json:"used,omitempty"`
}

// NewListCommand creates the list command
func NewListCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &ListCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List RAM volumes",
		Long:    `List the volumes found under the mount root, with their settings and usage.`,
		Args:    cobra.NoArgs,
		RunE:    cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.verbose, "long", "l", false, "Show every setting")
	cobraCmd.Flags().BoolVarP(&cmd.json, "json", "j", false, "JSON output")

	return cobraCmd
}

// Run executes the list command
func (c *ListCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.Registry.Scan(); err != nil {
		return err
	}

	statuses := c.collect()
	if c.json {
		return ui.FprintJSON(cmd.OutOrStdout(), statuses)
	}

	if len(statuses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No volumes found")
		return nil
	}

	if c.verbose {
		c.printVerbose(cmd, statuses)
	} else {
		c.printTable(cmd, statuses)
	}
	return nil
}

func (c *ListCommand) collect() []volumeStatus {
	mounts := make(map[string]ramdisk.MountInfo)
	infos, err := c.ctx.Discovery.Mounts()
	if err != nil {
		c.ctx.Logger.Debug("Failed to read mount table: %v", err)
	}
	for _, info := range infos {
		mounts[info.MountPoint] = info
	}

	statuses := make([]volumeStatus, 0)
	for _, d := range c.ctx.Registry.List() {
		s := volumeStatus{Descriptor: d, MountPoint: c.ctx.Registry.MountPath(d.Name)}
		if info, ok := mounts[s.MountPoint]; ok {
			s.Filesystem = info.Filesystem
			s.Size = info.Size
			s.Used = info.Used
		} else if size, used, err := ramdisk.Usage(s.MountPoint); err == nil {
			s.Size = size
			s.Used = used
		}
		statuses = append(statuses, s)
	}
	return statuses
}

func (c *ListCommand) printTable(cmd *cobra.Command, statuses []volumeStatus) {
	table := ui.NewTable("NAME", "SIZE", "USED", "AUTO-CREATE", "MOUNT POINT")

	for _, s := range statuses {
		used := "-"
		if s.Size > 0 {
			used = system.FormatSize(s.Used)
		}
		table.AddRow(
			s.Name,
			system.FormatSizeMB(s.SizeMB),
			used,
			strconv.FormatBool(s.AutoCreate),
			s.MountPoint,
		)
	}

	table.Fprint(cmd.OutOrStdout())
}

func (c *ListCommand) printVerbose(cmd *cobra.Command, statuses []volumeStatus) {
	out := cmd.OutOrStdout()
	for i, s := range statuses {
		if i > 0 {
			fmt.Fprintln(out)
		}

		fmt.Fprintf(out, "Volume: %s\n", s.Name)
		fmt.Fprintf(out, "  Mount Point: %s\n", s.MountPoint)
		fmt.Fprintf(out, "  Size: %s\n", system.FormatSizeMB(s.SizeMB))
		if s.Filesystem != "" {
			fmt.Fprintf(out, "  Filesystem: %s\n", s.Filesystem)
		}
		if s.Size > 0 {
			percentage := float64(s.Used) / float64(s.Size) * 100
			fmt.Fprintf(out, "  Used: %s (%.1f%%)\n", system.FormatSize(s.Used), percentage)
		}
		fmt.Fprintf(out, "  Auto-create: %t\n", s.AutoCreate)
		fmt.Fprintf(out, "  Spotlight: %t\n", s.SpotlightIndexed)
		fmt.Fprintf(out, "  Warn on eject: %t\n", s.WarnOnEject)
		if len(s.Folders) > 0 {
			fmt.Fprintf(out, "  Folders: %v\n", s.Folders)
		}
	}
}
