package commands

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/jomc/jomc/cmd/jomc/config"
	"github.com/jomc/jomc/pkg/classfile"
	"github.com/jomc/jomc/pkg/codec"
	"github.com/jomc/jomc/pkg/util"
	"github.com/jomc/jomc/pkg/util/cli"
)

func init() {
	attrOpts := &config.AttributeOptions{}

	attributeCmd := &cobra.Command{
		Use:          "attribute [command]",
		Short:        "Access the attributes of a class file",
		Aliases:      []string{"attr"},
		SilenceUsage: false,
	}

	listCmd := &cobra.Command{
		Use:          "list [class file]",
		Short:        "List the attributes of a class file",
		Aliases:      []string{"ls"},
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := classfile.ReadFile(args[0])
			if err != nil {
				return err
			}

			if attrOpts.Debug {
				spew.Fdump(cli.Output, cf)
				return nil
			}

			name, err := cf.ClassName()
			if err != nil {
				return err
			}
			cli.Infof("Attributes of %v:\n", name)

			names := cf.AttributeNames()

			w := tabwriter.NewWriter(cli.Output, 0, 0, 4, ' ', 0)
			for i, a := range cf.Attributes {
				fmt.Fprintf(w, "\t%v\t%v\t%v bytes\n", i, names[i], len(a.Data))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().BoolVarP(&attrOpts.Debug, "debug", "", false, "dump the parsed class file")

	getCmd := &cobra.Command{
		Use:          "get [class file] [attribute]",
		Short:        "Print the payload of an attribute",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := classfile.ReadFile(args[0])
			if err != nil {
				return err
			}

			data, ok := cf.Attribute(args[1])
			if !ok {
				return fmt.Errorf(`attribute "%v" not found`, args[1])
			}

			if !attrOpts.Decode {
				fmt.Fprintln(cli.Output, strings.Join(util.IndentLines(util.HexDump(data), " ", 2), "\n"))
				return nil
			}

			v, err := codec.New(args[1])
			if err != nil {
				return err
			}
			if err := codec.Decode(data, v); err != nil {
				return err
			}

			out, err := xml.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.Output, string(out))
			return nil
		},
	}
	getCmd.Flags().BoolVarP(&attrOpts.Decode, "decode", "", false, "decode the model object stored in the attribute")

	setCmd := &cobra.Command{
		Use:          "set [class file] [attribute] [payload file]",
		Short:        "Set the payload of an attribute, the payload is read from a file or - for stdin",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error

			if args[2] == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(args[2])
			}
			if err != nil {
				return fmt.Errorf("failed to read payload: %w", err)
			}

			if attrOpts.Encode {
				v, err := codec.New(args[1])
				if err != nil {
					return err
				}
				if err := xml.Unmarshal(data, v); err != nil {
					return fmt.Errorf("invalid model object: %w", err)
				}
				data, err = codec.Encode(v)
				if err != nil {
					return err
				}
			}

			cf, err := classfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := cf.SetAttribute(args[1], data); err != nil {
				return err
			}
			if err := classfile.WriteFile(args[0], cf); err != nil {
				return err
			}

			cli.Successf("%v written.\n", args[0])
			return nil
		},
	}
	setCmd.Flags().BoolVarP(&attrOpts.Encode, "encode", "", false, "encode the payload, an XML model object, before storing it")

	attributeCmd.AddCommand(listCmd)
	attributeCmd.AddCommand(getCmd)
	attributeCmd.AddCommand(setCmd)

	rootCmd.AddCommand(attributeCmd)
}
