package adminui

import "strings"

func userType(email string, adminEmails map[string]bool) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "User"
	}
	if adminEmails != nil && adminEmails[email] {
		return "Admin"
	}
	return "User"
}
