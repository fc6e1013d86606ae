package catalog

import (
	"strings"
)

var scb = &Application{ //nolint:gochecknoglobals
	Name:        SCB,
	Title:       "SCB (Student Career Builder)",
	Description: "Build your career roadmap, track skills and goals.",
	Requestable: []Role{RoleStudent, RoleAdmin, RoleCounselor},
	menus: map[Role][]Feature{
		RoleStudent: {
			{"Profile Management", "Complete or update your personal profile.", "/profile"},
			{"Skills Inventory", "Add and manage your skills and proficiency levels.", "/skills"},
			{"Career Goals", "Set and track your career objectives.", "/goals"},
			{"Progress Tracking", "View completion metrics and achievements.", "/progress"},
			{"Roadmap Planning", "Create and follow career pathways.", "/roadmap"},
			{"Resume Upload", "Upload your resume to extract skills automatically.", "/resume"},
		},
		RoleCounselor: {
			{"Counselor Dashboard", "Overview of your assigned students.", "/counselor"},
			{"Student Management", "View and guide student progress.", "/counselor/students"},
			{"Progress Reports", "Generate reports on student advancement.", "/counselor/reports"},
			{"Goal Approval", "Review and approve student career plans.", "/counselor/goals"},
			{"Intervention Tools", "Identify and support struggling students.", "/counselor/intervene"},
		},
		RoleAdmin: {
			{"Admin Dashboard", "System-wide management console.", "/admin"},
			{"Pathway Management", "Create and edit career pathways.", "/admin/pathways"},
			{"User Management", "Manage all user accounts.", "/admin/users"},
			{"Analytics", "View platform metrics and reports.", "/admin/analytics"},
			{"System Configuration", "Configure platform settings.", "/admin/settings"},
		},
	},
}

var lms = &Application{ //nolint:gochecknoglobals
	Name:        LMS,
	Title:       "LMS (Learning Management System)",
	Description: "Courses, assignments, grades and certificates.",
	Requestable: []Role{RoleStudent, RoleTeacher, RoleAdmin},
	menus: map[Role][]Feature{
		RoleStudent: {
			{"Learning Dashboard", "Course overview and progress.", "/dashboard"},
			{"Course Catalog", "Browse and search available courses.", "/courses"},
			{"My Courses", "Access enrolled learning content.", "/my-courses"},
			{"Assignments", "Submit and track your assignments.", "/assignments"},
			{"Grades", "View your scores and feedback.", "/grades"},
			{"Certificates", "Earn and download course completions.", "/certificates"},
		},
		RoleTeacher: {
			{"Teacher Dashboard", "Manage your teaching hub.", "/teacher"},
			{"Course Creation", "Develop new courses.", "/teacher/create"},
			{"Content Management", "Upload materials and resources.", "/teacher/content"},
			{"Gradebook", "Evaluate student work and manage grades.", "/teacher/gradebook"},
			{"Analytics", "Track learner performance.", "/teacher/analytics"},
			{"Communication", "Message your students directly.", "/teacher/communication"},
		},
		RoleAdmin: {
			{"LMS Admin Console", "Manage the entire platform.", "/admin"},
			{"Course Approval", "Review and approve course submissions.", "/admin/approvals"},
			{"User Management", "Manage learners and instructors.", "/admin/users"},
			{"Reporting", "Generate platform usage reports.", "/admin/reports"},
			{"System Settings", "Configure LMS options.", "/admin/settings"},
		},
	},
}

var jr = &Application{ //nolint:gochecknoglobals
	Name:        JR,
	Title:       "JR (Job Recommendation)",
	Description: "Find jobs, track applications and manage hiring.",
	Requestable: []Role{RoleJobSeeker, RoleAdmin, RoleRecruiter},
	menus: map[Role][]Feature{
		RoleJobSeeker: actions(
			"dashboard", "Job Dashboard",
			"jobs", "Job Search",
			"applications", "Applications",
			"interviews", "Interviews",
			"alerts", "Job Alerts",
		),
		RoleRecruiter: actions(
			"recruiter-dashboard", "Recruiter Dashboard",
			"post-job", "Post New Job",
			"candidates", "Candidate Search",
			"applications", "Application Review",
			"interviews", "Interview Management",
			"pipeline", "Talent Pipeline",
		),
		RoleAdmin: actions(
			"admin-dashboard", "JR Admin Dashboard",
			"verify-jobs", "Job Verification",
			"recruiters", "Recruiter Management",
			"compliance", "Compliance",
			"analytics", "Analytics & Reports",
		),
	},
	elevated: combinedMenu,
}

// actions builds a menu from id/label pairs.
func actions(pairs ...string) []Feature {
	out := make([]Feature, 0, len(pairs)/2) //nolint:mnd

	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Feature{
			Title:       pairs[i+1],
			Description: "Open " + pairs[i+1] + ".",
			Link:        "/" + pairs[i],
		})
	}

	return out
}

// jrDisplayOrder is the order of the combined JR menu.
var jrDisplayOrder = []Role{RoleJobSeeker, RoleRecruiter, RoleAdmin} //nolint:gochecknoglobals

// combinedMenu lists the JR role menus in display order, each title prefixed with its role.
func combinedMenu(a *Application) []Feature {
	var out []Feature

	for _, role := range jrDisplayOrder {
		prefix := "[" + RoleLabel(role) + "] "

		for _, f := range a.menus[role] {
			f.Title = prefix + f.Title
			out = append(out, f)
		}
	}

	return out
}

// RoleLabel returns a human readable role name, e.g. "Job Seeker".
func RoleLabel(role Role) string {
	words := strings.Split(string(role), "_")

	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}

	return strings.Join(words, " ")
}
