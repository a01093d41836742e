package command

// windowsExitSuffix makes cmd.exe exit after running the line instead of
// lingering when the line ends in a quoted argument.
const windowsExitSuffix = " & exit"

// AdaptForPlatform applies the platform's command line workaround. On
// windows the line gets windowsExitSuffix appended and must run through the
// shell; the returned shell flag is then true. Elsewhere the line is
// unchanged and the shell flag is nil, leaving the launcher's default.
func AdaptForPlatform(line, goos string) (string, *bool) {
	if goos != "windows" {
		return line, nil
	}
	shell := true
	return line + windowsExitSuffix, &shell
}
