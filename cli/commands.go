package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

// Commands is the full command set of the beancount binary.
type Commands struct {
	Globals

	Check  CheckCmd  `cmd:"" help:"Parse a ledger file and report syntax errors."`
	Dump   DumpCmd   `cmd:"" help:"Parse a ledger file and print its directives."`
	Format FormatCmd `cmd:"" help:"Reformat a ledger file with aligned amounts."`
	Watch  WatchCmd  `cmd:"" help:"Re-check a ledger file whenever it changes."`
}
