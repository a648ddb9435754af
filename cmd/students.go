package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/acadix/scan/internal/store"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage the student register",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered students",
	RunE:  runStudentsList,
}

var studentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new student",
	Long: `Register a new student in the register.

The student ID must be unique. The full name should match the identity
used at enrollment so recognition can attribute attendance.

Example:
  acadix-scan students add --id S42 --name "Ana Kovac" --prn 2203180042 --roll 17 --year 3 --branch CS`,
	RunE: runStudentsAdd,
}

func init() {
	rootCmd.AddCommand(studentsCmd)
	studentsCmd.AddCommand(studentsListCmd)
	studentsCmd.AddCommand(studentsAddCmd)

	studentsAddCmd.Flags().String("id", "", "Unique student ID (required)")
	studentsAddCmd.Flags().String("name", "", "Full name (required)")
	studentsAddCmd.Flags().String("prn", "", "Permanent registration number")
	studentsAddCmd.Flags().String("roll", "", "Roll number")
	studentsAddCmd.Flags().String("email", "", "Email address")
	studentsAddCmd.Flags().String("phone", "", "Student phone number")
	studentsAddCmd.Flags().String("parent-phone", "", "Parent phone number")
	studentsAddCmd.Flags().String("address", "", "Home address")
	studentsAddCmd.Flags().String("year", "", "Year of study")
	studentsAddCmd.Flags().String("branch", "", "Branch")
	studentsAddCmd.Flags().String("semester", "", "Semester")
	_ = studentsAddCmd.MarkFlagRequired("id")
	_ = studentsAddCmd.MarkFlagRequired("name")
}

func runStudentsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	students, err := st.ListStudents()
	if err != nil {
		return err
	}
	if len(students) == 0 {
		fmt.Println("No students registered yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRN\tROLL\tYEAR\tBRANCH\tSEMESTER")
	for _, s := range students {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.StudentID, s.FullName, s.PRN, s.RollNo, s.Year, s.Branch, s.Semester)
	}
	return w.Flush()
}

func runStudentsAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	student := store.Student{
		StudentID:    mustGetString(cmd, "id"),
		FullName:     mustGetString(cmd, "name"),
		Email:        mustGetString(cmd, "email"),
		RollNo:       mustGetString(cmd, "roll"),
		PRN:          mustGetString(cmd, "prn"),
		StudentPhone: mustGetString(cmd, "phone"),
		ParentPhone:  mustGetString(cmd, "parent-phone"),
		Address:      mustGetString(cmd, "address"),
		Year:         mustGetString(cmd, "year"),
		Branch:       mustGetString(cmd, "branch"),
		Semester:     mustGetString(cmd, "semester"),
	}
	if err := st.AddStudent(student); err != nil {
		return err
	}
	fmt.Printf("Registered %s (%s)\n", student.FullName, student.StudentID)
	return nil
}
