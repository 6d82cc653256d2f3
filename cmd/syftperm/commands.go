package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openmined/syftperm/internal/acl"
	"github.com/openmined/syftperm/internal/store"
	"github.com/openmined/syftperm/internal/version"
)

// mutateRetries bounds how often grant/revoke replays a conflicted
// read-modify-write before giving up.
const mutateRetries = 3

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve the effective access level for a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		svc, err := newService()
		if err != nil {
			return err
		}

		grant, err := svc.Resolve(args[0], user)
		if err != nil {
			return err
		}
		printGrant(grant)
		return nil
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <path>",
	Short: "Explain why a principal has (or lacks) access to a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		svc, err := newService()
		if err != nil {
			return err
		}

		lines, err := svc.Explain(args[0], user)
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

var grantCmd = &cobra.Command{
	Use:   "grant <path> <user> <level>",
	Short: "Grant an access level to a user on a path",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(args, func(svc *acl.Service, path, user string, level acl.AccessLevel) error {
			return svc.GrantAccess(path, user, level)
		})
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <path> <user> <level>",
	Short: "Revoke an access level from a user on a path",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(args, func(svc *acl.Service, path, user string, level acl.AccessLevel) error {
			return svc.RevokeAccess(path, user, level)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Detailed())
	},
}

func runMutation(args []string, mutate func(*acl.Service, string, string, acl.AccessLevel) error) error {
	level, err := acl.ParseLevel(args[2])
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}

	// Replay on conflict: another writer won the revision race, so the
	// edit must be recomputed against the new document.
	for attempt := 0; ; attempt++ {
		err = mutate(svc, args[0], args[1], level)
		if !errors.Is(err, store.ErrConflict) || attempt >= mutateRetries {
			return err
		}
	}
}
