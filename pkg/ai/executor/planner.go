package executor

import (
	"regexp"
	"strings"
)

// plannedCall is one tool invocation decided by the lexical planner.
type plannedCall struct {
	Tool   string
	Params map[string]string
}

var (
	calendarCreatePattern = regexp.MustCompile(`(?i)\b(?:schedule|book|set up|create|add)\b.{0,40}\b(?:meeting|event|appointment|call|reminder)\b|\badd (?:it |this )?to my calendar\b`)
	calendarListPattern   = regexp.MustCompile(`(?i)what(?:'s| is) on my calendar|list my (?:events|meetings|appointments)|\bmy schedule\b|upcoming events`)
	percentPattern        = regexp.MustCompile(`(?i)\d[\d.,]*\s*%\s*of\s*[\d.,]+`)
	arithmeticPattern     = regexp.MustCompile(`\d[\d.,]*\s*[-+*/]\s*[\d(][\d.,\s()+\-*/]*`)
	datetimePattern       = regexp.MustCompile(`(?i)what time is it|current time|today'?s date|what(?:'s| is) the date|what day is it`)
	wikipediaPattern      = regexp.MustCompile(`(?i)\bwikipedia\b`)
	webSearchPattern      = regexp.MustCompile(`(?i)\blatest news\b|\bnews about\b|\bsearch the web\b|\bgoogle\b|\bcurrent price\b|\bweather\b`)

	eventTitlePattern = regexp.MustCompile(`(?i)\b(?:meeting|event|appointment|call|reminder)\s+(?:with|about|for)\s+([A-Za-z0-9][A-Za-z0-9 ']*?)(?:\s+(?:on|at|tomorrow|today|next)\b|[.,!?]|$)`)
	eventDatePattern  = regexp.MustCompile(`(?i)\b(today|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday|\d{4}-\d{2}-\d{2})\b`)
	eventTimePattern  = regexp.MustCompile(`(?i)\bat\s+(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\b`)

	wikipediaQueryPattern = regexp.MustCompile(`(?i)wikipedia\s+(?:for|about|on)?\s*(.+)$`)
	timezonePattern       = regexp.MustCompile(`\b([A-Za-z]+/[A-Za-z_]+)\b`)
)

// planCalls maps a sanitized message to tool invocations using keyword and
// shape matching only. No model call: planning stays deterministic and the
// tool surface stays a closed set.
//
// A matched side-effecting tool short-circuits the plan, because its
// proposal suspends the turn before anything else would run.
func planCalls(text string) []plannedCall {
	if calendarCreatePattern.MatchString(text) {
		return []plannedCall{{Tool: "calendar_create_event", Params: extractEventParams(text)}}
	}

	var calls []plannedCall

	if calendarListPattern.MatchString(text) {
		params := map[string]string{}
		if m := eventDatePattern.FindStringSubmatch(text); m != nil {
			params["date"] = strings.ToLower(m[1])
		}
		calls = append(calls, plannedCall{Tool: "calendar_list_events", Params: params})
	}

	if m := percentPattern.FindString(text); m != "" {
		calls = append(calls, plannedCall{Tool: "calculator", Params: map[string]string{"expression": m}})
	} else if m := arithmeticPattern.FindString(text); m != "" {
		calls = append(calls, plannedCall{Tool: "calculator", Params: map[string]string{"expression": strings.TrimSpace(m)}})
	}

	if datetimePattern.MatchString(text) {
		params := map[string]string{}
		if m := timezonePattern.FindStringSubmatch(text); m != nil {
			params["timezone"] = m[1]
		}
		calls = append(calls, plannedCall{Tool: "datetime", Params: params})
	}

	if wikipediaPattern.MatchString(text) {
		query := text
		if m := wikipediaQueryPattern.FindStringSubmatch(text); m != nil {
			query = strings.Trim(m[1], " ?.!")
		}
		calls = append(calls, plannedCall{Tool: "wikipedia", Params: map[string]string{"query": query}})
	} else if webSearchPattern.MatchString(text) {
		calls = append(calls, plannedCall{Tool: "web_search", Params: map[string]string{"query": text}})
	}

	return calls
}

func extractEventParams(text string) map[string]string {
	params := map[string]string{}

	if m := eventTitlePattern.FindStringSubmatch(text); m != nil {
		params["title"] = strings.TrimSpace(m[1])
	} else {
		params["title"] = "New event"
	}
	if m := eventDatePattern.FindStringSubmatch(text); m != nil {
		params["date"] = strings.ToLower(m[1])
	} else {
		params["date"] = "today"
	}
	if m := eventTimePattern.FindStringSubmatch(text); m != nil {
		params["time"] = strings.TrimSpace(m[1])
	}

	return params
}
