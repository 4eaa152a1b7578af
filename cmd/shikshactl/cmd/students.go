package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shikshadesk/shikshactl/internal/api"
)

var studentListParams struct {
	page      int
	pageSize  int
	clusterID int64
	programID int64
	search    string
}

var studentFields struct {
	fullName     string
	gender       string
	dateOfBirth  string
	guardianName string
	phone        string
	clusterID    int64
	programID    int64
	inactive     bool
}

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage student records",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students",
	Long: `List students, optionally filtered by cluster, program, or a free-text
search over names.

Examples:
  shikshactl students list
  shikshactl students list --cluster 12 --search kumar
  shikshactl students list -o json`,
	RunE: runStudentsList,
}

var studentsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one student",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsGet,
}

var studentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new student",
	Long: `Register a new student in a cluster and program.

Examples:
  shikshactl students add --name "Asha Kumari" --cluster 12 --program 3`,
	RunE: runStudentsAdd,
}

var studentsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a student record",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsRemove,
}

func init() {
	studentsListCmd.Flags().IntVar(&studentListParams.page, "page", 0, "page number")
	studentsListCmd.Flags().IntVar(&studentListParams.pageSize, "page-size", 0, "results per page")
	studentsListCmd.Flags().Int64Var(&studentListParams.clusterID, "cluster", 0, "filter by cluster id")
	studentsListCmd.Flags().Int64Var(&studentListParams.programID, "program", 0, "filter by program id")
	studentsListCmd.Flags().StringVar(&studentListParams.search, "search", "", "free-text name search")

	studentsAddCmd.Flags().StringVar(&studentFields.fullName, "name", "", "full name (required)")
	studentsAddCmd.Flags().StringVar(&studentFields.gender, "gender", "", "gender")
	studentsAddCmd.Flags().StringVar(&studentFields.dateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	studentsAddCmd.Flags().StringVar(&studentFields.guardianName, "guardian", "", "guardian name")
	studentsAddCmd.Flags().StringVar(&studentFields.phone, "phone", "", "contact phone")
	studentsAddCmd.Flags().Int64Var(&studentFields.clusterID, "cluster", 0, "cluster id (required)")
	studentsAddCmd.Flags().Int64Var(&studentFields.programID, "program", 0, "program id (required)")
	studentsAddCmd.Flags().BoolVar(&studentFields.inactive, "inactive", false, "register as inactive")
	_ = studentsAddCmd.MarkFlagRequired("name")
	_ = studentsAddCmd.MarkFlagRequired("cluster")
	_ = studentsAddCmd.MarkFlagRequired("program")

	studentsCmd.AddCommand(studentsListCmd, studentsGetCmd, studentsAddCmd, studentsRemoveCmd)
	rootCmd.AddCommand(studentsCmd)
}

func runStudentsList(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}

	list, err := client.ListStudents(cmd.Context(), api.StudentListParams{
		Page:      studentListParams.page,
		PageSize:  studentListParams.pageSize,
		ClusterID: studentListParams.clusterID,
		ProgramID: studentListParams.programID,
		Search:    studentListParams.search,
	})
	if err != nil {
		return err
	}

	if handled, err := printStructured(list); handled {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tCLUSTER\tPROGRAM\tACTIVE")
	for _, s := range list.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", s.ID, s.FullName, s.ClusterID, s.ProgramID, activeMark(s.Active))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d of %d students\n", len(list.Items), list.Total)
	return nil
}

func runStudentsGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid student id %q", args[0])
	}

	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	s, err := client.GetStudent(cmd.Context(), id)
	if err != nil {
		return err
	}

	if handled, err := printStructured(s); handled {
		return err
	}

	fmt.Printf("ID:        %d\n", s.ID)
	fmt.Printf("Name:      %s\n", s.FullName)
	if s.Gender != "" {
		fmt.Printf("Gender:    %s\n", s.Gender)
	}
	if s.DateOfBirth != "" {
		fmt.Printf("Born:      %s\n", s.DateOfBirth)
	}
	if s.GuardianName != "" {
		fmt.Printf("Guardian:  %s\n", s.GuardianName)
	}
	if s.Phone != "" {
		fmt.Printf("Phone:     %s\n", s.Phone)
	}
	fmt.Printf("Cluster:   %d\n", s.ClusterID)
	fmt.Printf("Program:   %d\n", s.ProgramID)
	fmt.Printf("Active:    %s\n", activeMark(s.Active))
	return nil
}

func runStudentsAdd(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}

	created, err := client.CreateStudent(cmd.Context(), &api.Student{
		FullName:     studentFields.fullName,
		Gender:       studentFields.gender,
		DateOfBirth:  studentFields.dateOfBirth,
		GuardianName: studentFields.guardianName,
		Phone:        studentFields.phone,
		ClusterID:    studentFields.clusterID,
		ProgramID:    studentFields.programID,
		Active:       !studentFields.inactive,
	})
	if err != nil {
		return err
	}

	if handled, err := printStructured(created); handled {
		return err
	}
	fmt.Printf("Registered student %d: %s\n", created.ID, created.FullName)
	return nil
}

func runStudentsRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid student id %q", args[0])
	}

	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	if err := client.DeleteStudent(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Removed student %d\n", id)
	return nil
}
