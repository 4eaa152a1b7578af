package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shikshadesk/shikshactl/internal/api"
)

var teacherListParams struct {
	page      int
	pageSize  int
	clusterID int64
	search    string
}

var teacherFields struct {
	fullName  string
	email     string
	phone     string
	clusterID int64
	inactive  bool
}

var teachersCmd = &cobra.Command{
	Use:   "teachers",
	Short: "Manage teaching staff",
}

var teachersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List teachers",
	RunE:  runTeachersList,
}

var teachersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one teacher",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeachersGet,
}

var teachersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new teacher",
	RunE:  runTeachersAdd,
}

var teachersRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a teacher record",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeachersRemove,
}

func init() {
	teachersListCmd.Flags().IntVar(&teacherListParams.page, "page", 0, "page number")
	teachersListCmd.Flags().IntVar(&teacherListParams.pageSize, "page-size", 0, "results per page")
	teachersListCmd.Flags().Int64Var(&teacherListParams.clusterID, "cluster", 0, "filter by cluster id")
	teachersListCmd.Flags().StringVar(&teacherListParams.search, "search", "", "free-text name search")

	teachersAddCmd.Flags().StringVar(&teacherFields.fullName, "name", "", "full name (required)")
	teachersAddCmd.Flags().StringVar(&teacherFields.email, "email", "", "email address")
	teachersAddCmd.Flags().StringVar(&teacherFields.phone, "phone", "", "contact phone")
	teachersAddCmd.Flags().Int64Var(&teacherFields.clusterID, "cluster", 0, "cluster id (required)")
	teachersAddCmd.Flags().BoolVar(&teacherFields.inactive, "inactive", false, "register as inactive")
	_ = teachersAddCmd.MarkFlagRequired("name")
	_ = teachersAddCmd.MarkFlagRequired("cluster")

	teachersCmd.AddCommand(teachersListCmd, teachersGetCmd, teachersAddCmd, teachersRemoveCmd)
	rootCmd.AddCommand(teachersCmd)
}

func runTeachersList(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}

	list, err := client.ListTeachers(cmd.Context(), api.TeacherListParams{
		Page:      teacherListParams.page,
		PageSize:  teacherListParams.pageSize,
		ClusterID: teacherListParams.clusterID,
		Search:    teacherListParams.search,
	})
	if err != nil {
		return err
	}

	if handled, err := printStructured(list); handled {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCLUSTER\tACTIVE")
	for _, t := range list.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", t.ID, t.FullName, t.Email, t.ClusterID, activeMark(t.Active))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d of %d teachers\n", len(list.Items), list.Total)
	return nil
}

func runTeachersGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid teacher id %q", args[0])
	}

	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	t, err := client.GetTeacher(cmd.Context(), id)
	if err != nil {
		return err
	}

	if handled, err := printStructured(t); handled {
		return err
	}

	fmt.Printf("ID:       %d\n", t.ID)
	fmt.Printf("Name:     %s\n", t.FullName)
	if t.Email != "" {
		fmt.Printf("Email:    %s\n", t.Email)
	}
	if t.Phone != "" {
		fmt.Printf("Phone:    %s\n", t.Phone)
	}
	fmt.Printf("Cluster:  %d\n", t.ClusterID)
	fmt.Printf("Active:   %s\n", activeMark(t.Active))
	return nil
}

func runTeachersAdd(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}

	created, err := client.CreateTeacher(cmd.Context(), &api.Teacher{
		FullName:  teacherFields.fullName,
		Email:     teacherFields.email,
		Phone:     teacherFields.phone,
		ClusterID: teacherFields.clusterID,
		Active:    !teacherFields.inactive,
	})
	if err != nil {
		return err
	}

	if handled, err := printStructured(created); handled {
		return err
	}
	fmt.Printf("Registered teacher %d: %s\n", created.ID, created.FullName)
	return nil
}

func runTeachersRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid teacher id %q", args[0])
	}

	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	if err := client.DeleteTeacher(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Removed teacher %d\n", id)
	return nil
}
