// Package routes centralizes the application's route paths.
package routes

import "strconv"

const (
	Home        = "/"
	SignIn      = "/sign-in"
	SignUp      = "/sign-up"
	Community   = "/community"
	Collections = "/collections"
	Jobs        = "/find-jobs"
	Tags        = "/tags"
	Profile     = "/profile"
	AskQuestion = "/ask-a-question"

	// Live is the websocket endpoint of the live search channel.
	Live = "/_devflow/live"
	// LiveScript serves the thin client for the live search channel.
	LiveScript = "/_devflow/live.js"

	Health  = "/healthz"
	Metrics = "/metrics"
)

// Question returns the route of a single question.
func Question(id int) string {
	return "/question/" + strconv.Itoa(id)
}

// NavLink is an entry of the primary navigation.
type NavLink struct {
	Icon  string
	Route string
	Label string
}

// NavLinks lists the primary navigation in display order.
var NavLinks = []NavLink{
	{Icon: "/icons/home.svg", Route: Home, Label: "Home"},
	{Icon: "/icons/users.svg", Route: Community, Label: "Community"},
	{Icon: "/icons/star.svg", Route: Collections, Label: "Collections"},
	{Icon: "/icons/suitcase.svg", Route: Jobs, Label: "Find Jobs"},
	{Icon: "/icons/tag.svg", Route: Tags, Label: "Tags"},
	{Icon: "/icons/user.svg", Route: Profile, Label: "Profile"},
	{Icon: "/icons/question.svg", Route: AskQuestion, Label: "Ask a question"},
}
