package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"cha/internal/hierarchy"
	"cha/internal/universe"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask questions about the closed class hierarchy",
}

var (
	querySubclassesCmd = &cobra.Command{
		Use:   "subclasses <class>",
		Short: "List the subclasses of a class matching a selector",
		Args:  cobra.ExactArgs(1),
		RunE:  runQueryList(false),
	}
	querySubtypesCmd = &cobra.Command{
		Use:   "subtypes <class>",
		Short: "List the subtypes of a class, including interface implementors",
		Args:  cobra.ExactArgs(1),
		RunE:  runQueryList(true),
	}
	queryLubCmd = &cobra.Command{
		Use:   "lub <class>",
		Short: "Print the least upper bound of the instantiated subclasses of a class",
		Args:  cobra.ExactArgs(1),
		RunE:  runQueryLub,
	}
	queryMonomorphicCmd = &cobra.Command{
		Use:   "monomorphic <class>",
		Short: "Print the only instantiated subtype of a class, if there is one",
		Args:  cobra.ExactArgs(1),
		RunE:  runQueryMonomorphic,
	}
	queryInstantiatedCmd = &cobra.Command{
		Use:   "instantiated",
		Short: "List every directly instantiated class",
		Args:  cobra.NoArgs,
		RunE:  runQueryInstantiated,
	}
)

func init() {
	queryCmd.PersistentFlags().StringSliceP("manifest", "m", nil, "manifest files to load (default: nearest cha.toml)")
	for _, c := range []*cobra.Command{querySubclassesCmd, querySubtypesCmd} {
		c.Flags().String("mask", "instantiated", "instantiation selector (all|instantiated|direct|indirect|uninstantiated, combined with ',')")
		c.Flags().Bool("strict", false, "exclude the class itself")
	}
	queryLubCmd.Flags().Bool("subtypes", false, "bound the instantiated subtypes instead of subclasses")

	queryCmd.AddCommand(querySubclassesCmd)
	queryCmd.AddCommand(querySubtypesCmd)
	queryCmd.AddCommand(queryLubCmd)
	queryCmd.AddCommand(queryMonomorphicCmd)
	queryCmd.AddCommand(queryInstantiatedCmd)
}

// openQuerySession loads the world and refuses to answer when the input has
// errors.
func openQuerySession(cmd *cobra.Command) (*session, error) {
	paths, err := cmd.Flags().GetStringSlice("manifest")
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	s, err := openSession(cmd, paths, sessionOptions{})
	if err != nil {
		return nil, err
	}
	if s.bag.HasErrors() || s.world == nil {
		s.bag.Sort()
		printDiagnostics(cmd.ErrOrStderr(), s.bag.Items())
		return nil, errCheckFailed
	}
	return s, nil
}

func runQueryList(subtypes bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer dumpTraceOnPanic()

		maskStr, err := cmd.Flags().GetString("mask")
		if err != nil {
			return fmt.Errorf("failed to get mask flag: %w", err)
		}
		mask, err := hierarchy.ParseSelector(maskStr)
		if err != nil {
			return err
		}
		strict, err := cmd.Flags().GetBool("strict")
		if err != nil {
			return fmt.Errorf("failed to get strict flag: %w", err)
		}
		s, err := openQuerySession(cmd)
		if err != nil {
			return err
		}
		defer s.printTimings(cmd)
		cls, err := s.lookup(args[0])
		if err != nil {
			return err
		}
		var classes []universe.ClassID
		if subtypes {
			classes = s.world.Subtypes(cls, mask, strict)
		} else {
			classes = s.world.Subclasses(cls, mask, strict)
		}
		writeClassTable(cmd.OutOrStdout(), s, classes)
		return nil
	}
}

func writeClassTable(out io.Writer, s *session, classes []universe.ClassID) {
	rows := [][]string{{"CLASS", "STATE", "DEPTH", "MANIFEST"}}
	for _, cls := range classes {
		name := s.universe.Name(cls)
		rows = append(rows, []string{
			name,
			s.world.State(cls).String(),
			strconv.Itoa(s.universe.HierarchyDepth(cls)),
			s.set.Origin(name),
		})
	}
	writeTable(out, rows)
}

func runQueryLub(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	useSubtypes, err := cmd.Flags().GetBool("subtypes")
	if err != nil {
		return fmt.Errorf("failed to get subtypes flag: %w", err)
	}
	s, err := openQuerySession(cmd)
	if err != nil {
		return err
	}
	defer s.printTimings(cmd)
	cls, err := s.lookup(args[0])
	if err != nil {
		return err
	}
	var (
		lub universe.ClassID
		ok  bool
	)
	if useSubtypes {
		lub, ok = s.world.LubOfInstantiatedSubtypes(cls)
	} else {
		lub, ok = s.world.LubOfInstantiatedSubclasses(cls)
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), styled(mutedStyle, "(none)"))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), s.universe.Name(lub))
	return nil
}

func runQueryMonomorphic(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	s, err := openQuerySession(cmd)
	if err != nil {
		return err
	}
	defer s.printTimings(cmd)
	cls, err := s.lookup(args[0])
	if err != nil {
		return err
	}
	target, ok := s.world.Monomorphic(cls)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), styled(mutedStyle, "(polymorphic)"))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), s.universe.Name(target))
	return nil
}

func runQueryInstantiated(cmd *cobra.Command, _ []string) error {
	defer dumpTraceOnPanic()

	s, err := openQuerySession(cmd)
	if err != nil {
		return err
	}
	defer s.printTimings(cmd)
	writeClassTable(cmd.OutOrStdout(), s, s.world.InstantiatedClasses())
	return nil
}
