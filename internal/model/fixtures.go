package model

import "time"

// SampleTasks returns the demo fixtures loaded by the sample-data endpoint.
// Exactly one of them is in the Assigned status.
func SampleTasks() []Task {
	return []Task{
		{
			Title:       "Fix Login Issue",
			Description: "Users cannot login with correct credentials",
			AssignedTo:  "john@company.com",
			Priority:    PriorityHigh,
			DueDate:     NewDate(2024, time.January, 15),
			ClientName:  "ABC Corp",
			ProjectName: "Website Redesign",
			CreatedBy:   "admin",
			Attachments: []string{"https://example.com/file1.pdf"},
			Notes:       "Urgent fix required",
			Status:      StatusUnassigned,
		},
		{
			Title:       "Update Homepage Design",
			Description: "Refresh the homepage with new layout",
			AssignedTo:  "sarah@company.com",
			Priority:    PriorityMedium,
			DueDate:     NewDate(2024, time.January, 20),
			ClientName:  "XYZ Inc",
			ProjectName: "UI Update",
			CreatedBy:   "manager",
			Attachments: []string{},
			Notes:       "Client requested modern look",
			Status:      StatusAssigned,
		},
		{
			Title:       "Database Optimization",
			Description: "Optimize database queries for better performance",
			AssignedTo:  "mike@company.com",
			Priority:    PriorityHigh,
			DueDate:     NewDate(2024, time.January, 25),
			ClientName:  "DataTech Solutions",
			ProjectName: "Backend Improvement",
			CreatedBy:   "techlead",
			Attachments: []string{"https://example.com/db-schema.pdf"},
			Notes:       "Focus on slow queries",
			Status:      StatusInProgress,
		},
		{
			Title:       "Mobile App Testing",
			Description: "Complete testing of new mobile application",
			AssignedTo:  "lisa@company.com",
			Priority:    PriorityMedium,
			DueDate:     NewDate(2024, time.January, 10),
			ClientName:  "MobileFirst Inc",
			ProjectName: "App Launch",
			CreatedBy:   "qa",
			Attachments: []string{},
			Notes:       "Test on iOS and Android",
			Status:      StatusClosed,
		},
	}
}
