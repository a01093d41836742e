// Package command wraps an external program as a reusable handle.
//
// A Command holds the program path and its run settings. Each Run
// terminates whatever the previous run left behind, allocates fresh output
// captures, builds the command line from the program path and a parameter
// string, and hands it to a process.Launcher:
//
//	cmd, err := command.New("git", command.WithSilence(false))
//	if err != nil {
//		return err
//	}
//	defer cmd.Terminate()
//
//	if _, err := cmd.Run(ctx, "status --short"); err != nil {
//		return err
//	}
//	fmt.Print(cmd.Output().Text())
//
// Parameters are appended verbatim. They are not escaped or tokenized
// here; the launcher splits the final command line.
//
// A Command is not safe for concurrent use.
package command
