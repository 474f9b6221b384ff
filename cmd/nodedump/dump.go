package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sirixdb/nodestore"
)

var startKey uint64

func init() {
	cmd := newDumpCmd()
	cmd.Flags().Uint64Var(&startKey, "start-key", 1,
		"nodeKey assigned to the first frame; subsequent frames increment by 1 (a dump-tool convention, not a stored value)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Walk and print every record frame in a page-memory dump file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

func runDump(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading dump file: %w", err)
	}

	cfg := nodestore.DefaultResourceConfig()
	offset := 0
	nodeKey := nodestore.NodeKey(startKey)
	count := 0

	for offset < len(buf) {
		proxy, next, err := nodestore.ReadFramedNode(buf, offset, nodeKey, nil, cfg)
		if err != nil {
			log.Error().Err(err).Int("offset", offset).Msg("failed to decode frame")
			return err
		}
		printNode(proxy, nodeKey, offset)
		offset = next
		nodeKey++
		count++
	}

	log.Info().Int("nodes", count).Str("file", path).Msg("dump complete")
	return nil
}

func printNode(p nodestore.NodeProxy, nodeKey nodestore.NodeKey, offset int) {
	if jsonOut {
		fmt.Printf(
			`{"offset":%d,"nodeKey":%d,"kind":%q,"parentKey":%d,"hash":%d}`+"\n",
			offset, nodeKey, p.Kind().String(), p.ParentKey(), p.GetHash(),
		)
		return
	}
	fmt.Printf("@%-8d nodeKey=%-6d kind=%-20s parentKey=%-6d hash=%#016x\n",
		offset, nodeKey, p.Kind().String(), p.ParentKey(), uint64(p.GetHash()))
}
