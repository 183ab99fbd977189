package handlers

import (
	"kelime/internal/avatar"
	"kelime/internal/dashboard"
	"kelime/internal/models"
	"kelime/internal/service"
	"kelime/internal/study"
)

// ProfileView is a profile with its resolved avatar
type ProfileView struct {
	models.Profile
	Avatar string `json:"avatar"`
}

func newProfileView(p models.Profile, avatars *avatar.Resolver) ProfileView {
	return ProfileView{Profile: p, Avatar: avatars.Resolve(p.Username, p.AvatarURL)}
}

// SessionResponse describes the logged-in profile and what it may open
type SessionResponse struct {
	Profile   ProfileView `json:"profile"`
	Views     []string    `json:"views"`
	CSRFToken string      `json:"csrf_token"`
}

// viewsFor lists the views open to p. The admin view is role gated.
func viewsFor(p *models.Profile) []string {
	views := []string{ViewDashboard, ViewWords, ViewStudy}
	if p.IsAdmin() {
		views = append(views, ViewAdmin)
	}
	return views
}

// DashboardResponse is the dashboard summary plus resolved avatars keyed
// by username
type DashboardResponse struct {
	*dashboard.Summary
	Avatars map[string]string `json:"avatars"`
}

type WordsResponse struct {
	Words []models.Word `json:"words"`
}

type ImportResponse struct {
	Message string `json:"message"`
	*service.ImportReport
}

type AnswerResponse struct {
	Accepted      bool       `json:"accepted"`
	Correct       bool       `json:"correct"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation,omitempty"`
	Score         int        `json:"score"`
	View          study.View `json:"view"`
}

type ProfilesResponse struct {
	Profiles []ProfileView `json:"profiles"`
}

type CreateProfileResponse struct {
	Message           string      `json:"message"`
	Profile           ProfileView `json:"profile"`
	GeneratedPassword string      `json:"generated_password,omitempty"`
}
