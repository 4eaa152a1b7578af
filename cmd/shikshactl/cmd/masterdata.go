package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shikshadesk/shikshactl/internal/api"
)

var clusterFields struct {
	name     string
	district string
	state    string
	inactive bool
}

var programFields struct {
	name        string
	description string
	inactive    bool
}

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List and manage learning centres",
}

var clustersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learning centres",
	RunE:  runClustersList,
}

var clustersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one learning centre",
	Args:  cobra.ExactArgs(1),
	RunE:  runClustersGet,
}

var clustersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new learning centre",
	RunE:  runClustersAdd,
}

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List and manage programs",
}

var programsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List programs",
	RunE:  runProgramsList,
}

var programsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new program",
	RunE:  runProgramsAdd,
}

func init() {
	clustersAddCmd.Flags().StringVar(&clusterFields.name, "name", "", "centre name (required)")
	clustersAddCmd.Flags().StringVar(&clusterFields.district, "district", "", "district")
	clustersAddCmd.Flags().StringVar(&clusterFields.state, "state", "", "state")
	clustersAddCmd.Flags().BoolVar(&clusterFields.inactive, "inactive", false, "register as inactive")
	_ = clustersAddCmd.MarkFlagRequired("name")

	programsAddCmd.Flags().StringVar(&programFields.name, "name", "", "program name (required)")
	programsAddCmd.Flags().StringVar(&programFields.description, "description", "", "program description")
	programsAddCmd.Flags().BoolVar(&programFields.inactive, "inactive", false, "register as inactive")
	_ = programsAddCmd.MarkFlagRequired("name")

	clustersCmd.AddCommand(clustersListCmd, clustersGetCmd, clustersAddCmd)
	programsCmd.AddCommand(programsListCmd, programsAddCmd)
	rootCmd.AddCommand(clustersCmd, programsCmd)
}

func runClustersList(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	clusters, err := client.ListClusters(cmd.Context())
	if err != nil {
		return err
	}

	if handled, err := printStructured(clusters); handled {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tDISTRICT\tSTATE\tACTIVE")
	for _, cl := range clusters {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", cl.ID, cl.Name, cl.District, cl.State, activeMark(cl.Active))
	}
	return w.Flush()
}

func runClustersGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid cluster id %q", args[0])
	}

	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	cl, err := client.GetCluster(cmd.Context(), id)
	if err != nil {
		return err
	}

	if handled, err := printStructured(cl); handled {
		return err
	}

	fmt.Printf("ID:        %d\n", cl.ID)
	fmt.Printf("Name:      %s\n", cl.Name)
	if cl.District != "" {
		fmt.Printf("District:  %s\n", cl.District)
	}
	if cl.State != "" {
		fmt.Printf("State:     %s\n", cl.State)
	}
	fmt.Printf("Active:    %s\n", activeMark(cl.Active))
	return nil
}

func runClustersAdd(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}

	created, err := client.CreateCluster(cmd.Context(), &api.Cluster{
		Name:     clusterFields.name,
		District: clusterFields.district,
		State:    clusterFields.state,
		Active:   !clusterFields.inactive,
	})
	if err != nil {
		return err
	}

	if handled, err := printStructured(created); handled {
		return err
	}
	fmt.Printf("Registered cluster %d: %s\n", created.ID, created.Name)
	return nil
}

func runProgramsList(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	programs, err := client.ListPrograms(cmd.Context())
	if err != nil {
		return err
	}

	if handled, err := printStructured(programs); handled {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\tACTIVE")
	for _, p := range programs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Description, activeMark(p.Active))
	}
	return w.Flush()
}

func runProgramsAdd(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}

	created, err := client.CreateProgram(cmd.Context(), &api.Program{
		Name:        programFields.name,
		Description: programFields.description,
		Active:      !programFields.inactive,
	})
	if err != nil {
		return err
	}

	if handled, err := printStructured(created); handled {
		return err
	}
	fmt.Printf("Registered program %d: %s\n", created.ID, created.Name)
	return nil
}
