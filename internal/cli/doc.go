// Package cli implements the sysdash command-line interface.
//
// The root command opens the dashboard. The subcommands are one-shot
// versions of the dashboard's actions:
//
//	sysdash [dash]                 - Live dashboard (one snapshot when piped)
//	sysdash apps list              - Application inventory
//	sysdash apps uninstall NAME    - Uninstall after confirmation
//	sysdash apps clean-cache NAME  - Clear an application's cache
//	sysdash kill PID               - Terminate a process on the producer host
//	sysdash info                   - Host model and OS
//	sysdash config init|set        - Write or edit the config file
//	sysdash version                - Build information
//
// Every command loads the config the same way (see loadConfig): the file
// found by the search order, SYSDASH_* environment overrides, then the
// --server flag. Logs go to the configured file so they never mix with
// command output.
//
// Failures are returned as *errors.Error and printed once by Execute. A
// producer answer of success:false is printed by the command itself and
// only sets the exit status.
package cli
