package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/planvault/internal/buildinfo"
	"github.com/aidanlsb/planvault/internal/ui"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Built     string `json:"built,omitempty"`
	GoVersion string `json:"go_version"`
}

// String renders "v0.3.0 (abc1234, 2025-01-08, go1.24.6)".
func (v versionInfo) String() string {
	var details []string
	if v.Commit != "" {
		details = append(details, v.Commit)
	}
	if v.Built != "" {
		details = append(details, v.Built)
	}
	details = append(details, v.GoVersion)
	return fmt.Sprintf("%s (%s)", v.Version, strings.Join(details, ", "))
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the planvault version",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()
		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}
		fmt.Println(ui.Bold.Render("planvault") + " " + info.String())
		return nil
	},
}

// currentVersionInfo prefers release ldflags and falls back to the module
// version and VCS stamp embedded by go build.
func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:   buildinfo.Version,
		Commit:    buildinfo.Commit,
		Built:     buildinfo.Date,
		GoVersion: runtime.Version(),
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if info.Version == "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = shortCommit(s.Value)
			case s.Key == "vcs.time" && info.Built == "":
				info.Built = s.Value
			}
		}
	}

	if info.Version == "" {
		info.Version = "devel"
	}
	return info
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
