package qcd

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort = "Jump to bookmarked directories and keep a per-shell directory stack"
	MsgRootUse   = "qcd [ENTRY]"

	// Navigation and stack
	MsgFlagNoPush = "Do not push the current directory before jumping"
	MsgFlagPop    = "Pop the top of the stack and change into it"
	MsgFlagSwap   = "Swap the current directory with the top of the stack"
	MsgFlagDrop   = "Discard the top of the stack"
	MsgFlagStack  = "List the directory stack, top first"
	MsgFlagPush   = "Push the current directory on the stack"
	MsgFlagEcho   = "Print the directory ENTRY resolves to without changing into it"

	// Registry
	MsgFlagAdd        = "Add PATH to the bookmarks"
	MsgFlagAddCurrent = "Add the current directory to the bookmarks"
	MsgFlagIndex      = "Index for --add, --add-current and --set-index"
	MsgFlagAlias      = "Alias for --add, --add-current and --set-alias"
	MsgFlagRemove     = "Remove the bookmark with this exact index or alias"
	MsgFlagList       = "List all bookmarks"
	MsgFlagQuery      = "Print the index of PATH, or -1 if it is not bookmarked"
	MsgFlagSetAlias   = "Set (or with an empty -s, clear) the alias of the bookmark at this index"
	MsgFlagSetIndex   = "Move the bookmark at this index to the index given with -i"

	// Meta
	MsgFlagPID         = "Print the session id to export in QCD_RS_SESSIONID"
	MsgFlagInit        = "Print the shell integration for SHELL (bash, zsh, fish)"
	MsgFlagGuide       = "Show the usage guide"
	MsgFlagPrintConfig = "Print the effective configuration as TOML"
	MsgFlagConfig      = "Read configuration from this file"
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"

	// Errors
	MsgErrOneAction     = "only one action can be given at a time"
	MsgErrIndexFlag     = "-i only applies to --add, --add-current and --set-index"
	MsgErrAliasFlag     = "-s only applies to --add, --add-current and --set-alias"
	MsgErrNoPushFlag    = "-n only applies when jumping to an ENTRY"
	MsgErrSetIndexNeeds = "--set-index needs the new index in -i"
	MsgErrSetAliasNeeds = "--set-alias needs the alias in -s"
	MsgErrArguments     = "invalid arguments"

	MsgVersionTemplate = "qcd %s (commit %s, built %s)\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	MsgUsageTemplate string

	//go:embed msgs/guide.md
	MsgGuide string
)
