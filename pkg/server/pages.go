package server

import (
	"strconv"
	"strings"

	"github.com/devflow-dev/devflow/pkg/notice"
	"github.com/devflow-dev/devflow/pkg/questions"
	"github.com/devflow-dev/devflow/pkg/routes"
	"github.com/devflow-dev/devflow/pkg/vdom"
)

const (
	siteLogo      = "/static/images/site-logo.svg"
	excerptLength = 140
	topQuestions  = 5
	popularTags   = 5
)

// isActive reports whether the nav link to route is the current page.
func isActive(current, route string) bool {
	if route == routes.Home {
		return current == routes.Home
	}
	return current == route || strings.HasPrefix(current, route+"/")
}

// rootLayout wraps a page in the navbar and both sidebars.
func rootLayout(current string, content, aside *vdom.VNode) *vdom.VNode {
	return vdom.Fragment(
		navbar(),
		vdom.Div(
			vdom.Class("layout"),
			leftSidebar(current),
			vdom.Main(
				vdom.Class("main"),
				vdom.Div(vdom.Class("notice-stack"), vdom.Data("notice-stack", "")),
				vdom.Section(vdom.Class("main-content"), content),
			),
			aside,
		),
	)
}

func navbar() *vdom.VNode {
	return vdom.Nav(
		vdom.Class("navbar"),
		vdom.A(
			vdom.Href(routes.Home),
			vdom.Class("navbar-brand"),
			vdom.Img(vdom.Src(siteLogo), vdom.Alt("logo"), vdom.Width(32), vdom.Height(32)),
			vdom.P(vdom.Class("navbar-title"), "Dev", vdom.Span(vdom.Class("navbar-title-accent"), "Flow")),
		),
	)
}

func leftSidebar(current string) *vdom.VNode {
	return vdom.Section(
		vdom.Class("left-sidebar"),
		vdom.Nav(
			vdom.Class("nav-links"),
			vdom.AriaLabel("Primary"),
			vdom.Range(routes.NavLinks, func(link routes.NavLink, _ int) *vdom.VNode {
				return navLink(link, isActive(current, link.Route))
			}),
		),
		vdom.Div(
			vdom.Class("auth-links"),
			vdom.A(vdom.Href(routes.SignIn), vdom.Class("btn-secondary"), vdom.Span("Sign In")),
			vdom.A(vdom.Href(routes.SignUp), vdom.Class("btn-tertiary"), vdom.Span("Sign Up")),
		),
	)
}

func navLink(link routes.NavLink, active bool) *vdom.VNode {
	state := "nav-link-idle"
	if active {
		state = "nav-link-active"
	}
	var current vdom.Attr
	if active {
		current = vdom.AttrOf("aria-current", "page")
	}
	return vdom.A(
		vdom.Href(link.Route),
		vdom.Class("nav-link", state),
		current,
		vdom.Img(vdom.Src(link.Icon), vdom.Alt(link.Label), vdom.Width(20), vdom.Height(20)),
		vdom.P(link.Label),
	)
}

// rightSidebar lists the top questions and the popular tags.
func rightSidebar(data questions.Dataset) *vdom.VNode {
	qs := data.Questions
	if len(qs) > topQuestions {
		qs = qs[:topQuestions]
	}
	tags := data.Tags
	if len(tags) > popularTags {
		tags = tags[:popularTags]
	}
	return vdom.Aside(
		vdom.Class("right-sidebar"),
		vdom.Div(
			vdom.H3("Top Questions"),
			vdom.Div(
				vdom.Class("top-questions"),
				vdom.Range(qs, func(q questions.Question, _ int) *vdom.VNode {
					return vdom.A(
						vdom.Href(routes.Question(q.ID)),
						vdom.Class("top-question"),
						vdom.Key(strconv.Itoa(q.ID)),
						vdom.P(q.Title),
						vdom.Img(vdom.Src("/static/icons/chevron-right.svg"), vdom.Alt("chevron-right"), vdom.Width(20), vdom.Height(20)),
					)
				}),
			),
		),
		vdom.Div(
			vdom.Class("popular-tags-section"),
			vdom.H3("Popular Tags"),
			vdom.Div(
				vdom.Class("popular-tags"),
				vdom.Range(tags, func(t questions.Tag, _ int) *vdom.VNode {
					return tagCard(t, true)
				}),
			),
		),
	)
}

func tagCard(t questions.Tag, showCount bool) *vdom.VNode {
	return vdom.A(
		vdom.Href(routes.Tags+"/"+strconv.Itoa(t.ID)),
		vdom.Class("tag-card"),
		vdom.Key(strconv.Itoa(t.ID)),
		vdom.Span(vdom.Class("tag-badge"), strings.ToUpper(t.Name)),
		vdom.If(showCount, vdom.Small(vdom.Class("tag-count"), strconv.Itoa(t.Questions))),
	)
}

// homePage is the question list with the synchronized search box.
func homePage(searchBox *vdom.VNode, qs []questions.Question, query string, n *notice.Notice) *vdom.VNode {
	return vdom.Fragment(
		vdom.Section(
			vdom.Class("home-header"),
			vdom.H1(vdom.Class("h1-bold"), "All Questions"),
			vdom.A(vdom.Href(routes.AskQuestion), vdom.Class("btn-primary"), "Ask a Question"),
		),
		noticeNode(n),
		vdom.Section(vdom.Class("home-search"), searchBox),
		vdom.Div(
			vdom.Class("question-list"),
			vdom.Data("search-results", ""),
			vdom.IfElse(len(qs) == 0,
				emptyResults(query),
				vdom.Fragment(vdom.Range(qs, func(q questions.Question, _ int) *vdom.VNode {
					return questionCard(q)
				})),
			),
		),
	)
}

func emptyResults(query string) *vdom.VNode {
	msg := "No questions yet."
	if query != "" {
		msg = "No questions match “" + query + "”."
	}
	return vdom.P(vdom.Class("question-list-empty"), msg)
}

func questionCard(q questions.Question) *vdom.VNode {
	return vdom.Article(
		vdom.Class("question-card"),
		vdom.Key(strconv.Itoa(q.ID)),
		vdom.A(vdom.Href(routes.Question(q.ID)), vdom.H3(q.Title)),
		vdom.P(vdom.Class("question-excerpt"), questions.Excerpt(q, excerptLength)),
		vdom.Div(
			vdom.Class("question-tags"),
			vdom.Range(q.Tags, func(t string, _ int) *vdom.VNode {
				return vdom.Span(vdom.Class("tag-badge"), strings.ToUpper(t))
			}),
		),
		questionMetrics(q),
	)
}

func questionMetrics(q questions.Question) *vdom.VNode {
	return vdom.Div(
		vdom.Class("question-metrics"),
		vdom.Span(vdom.Class("question-author"), q.Author.Name),
		vdom.Textf("%d votes · %d answers · %d views", q.Upvotes, q.Answers, q.Views),
	)
}

func questionPage(q questions.Question) *vdom.VNode {
	return vdom.Article(
		vdom.Class("question-detail"),
		vdom.H1(vdom.Class("h1-bold"), q.Title),
		questionMetrics(q),
		vdom.P(vdom.Class("question-body"), questions.PlainText(q.Description)),
		vdom.Div(
			vdom.Class("question-tags"),
			vdom.Range(q.Tags, func(t string, _ int) *vdom.VNode {
				return vdom.Span(vdom.Class("tag-badge"), strings.ToUpper(t))
			}),
		),
	)
}

func tagsPage(tags []questions.Tag) *vdom.VNode {
	return vdom.Fragment(
		vdom.H1(vdom.Class("h1-bold"), "Tags"),
		vdom.Div(
			vdom.Class("tag-grid"),
			vdom.Range(tags, func(t questions.Tag, _ int) *vdom.VNode {
				return tagCard(t, true)
			}),
		),
	)
}

func messagePage(title, message string) *vdom.VNode {
	return vdom.Fragment(
		vdom.H1(vdom.Class("h1-bold"), title),
		vdom.P(vdom.Class("page-message"), message),
	)
}

// authLayout is the centered card shared by the sign-in and sign-up pages.
func authLayout(content *vdom.VNode, n *notice.Notice) *vdom.VNode {
	return vdom.Main(
		vdom.Class("auth-layout"),
		vdom.Section(
			vdom.Class("auth-card"),
			vdom.Div(
				vdom.Class("auth-header"),
				vdom.Div(
					vdom.H1(vdom.Class("h1-bold"), "Join The Flow"),
					vdom.P(vdom.Class("paragraph-regular"),
						"Join the Flow to connect with the community and start your journey to success."),
				),
				vdom.Img(vdom.Src(siteLogo), vdom.Alt("site-logo"), vdom.Width(50), vdom.Height(50)),
			),
			noticeNode(n),
			content,
		),
	)
}

func noticeNode(n *notice.Notice) *vdom.VNode {
	if n == nil {
		return nil
	}
	return n.Render()
}
