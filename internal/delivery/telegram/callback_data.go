package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Callback action constants.
const (
	actionRole     = "role"
	actionCourse   = "course"
	actionAnswer   = "ans"
	actionRetry    = "retry"
	actionRoles    = "roles"
	actionProgress = "progress"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildRoleCallback(role string) string {
	return callbackData{Action: actionRole, Params: []string{role}}.encode()
}

func buildRolesCallback() string {
	return actionRoles
}

func buildProgressCallback() string {
	return actionProgress
}

func buildCourseCallback(courseID uuid.UUID) string {
	return callbackData{Action: actionCourse, Params: []string{courseID.String()}}.encode()
}

func buildRetryCallback(courseID uuid.UUID) string {
	return callbackData{Action: actionRetry, Params: []string{courseID.String()}}.encode()
}

// buildAnswerCallback builds callback data for choosing option on question
// index. attempt counts the earlier wrong answers to the same question.
func buildAnswerCallback(courseID uuid.UUID, index int, option string, attempt int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{
			courseID.String(),
			strconv.Itoa(index),
			option,
			strconv.Itoa(attempt),
		},
	}.encode()
}

// answerParams is a decoded answer callback.
type answerParams struct {
	CourseID uuid.UUID
	Index    int
	Option   string
	Attempt  int
}

func (cd callbackData) courseID() (uuid.UUID, error) {
	if len(cd.Params) != 1 {
		return uuid.Nil, fmt.Errorf("invalid %s callback: %q", cd.Action, cd.Raw)
	}
	id, err := uuid.Parse(cd.Params[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid course id in %q: %w", cd.Raw, err)
	}
	return id, nil
}

func (cd callbackData) answer() (answerParams, error) {
	if cd.Action != actionAnswer || len(cd.Params) != 4 {
		return answerParams{}, fmt.Errorf("invalid answer callback: %q", cd.Raw)
	}

	courseID, err := uuid.Parse(cd.Params[0])
	if err != nil {
		return answerParams{}, fmt.Errorf("invalid course id in %q: %w", cd.Raw, err)
	}
	index, err1 := strconv.Atoi(cd.Params[1])
	attempt, err2 := strconv.Atoi(cd.Params[3])
	if err1 != nil || err2 != nil || index < 0 || attempt < 0 || cd.Params[2] == "" {
		return answerParams{}, fmt.Errorf("invalid answer callback values: %q", cd.Raw)
	}

	return answerParams{
		CourseID: courseID,
		Index:    index,
		Option:   cd.Params[2],
		Attempt:  attempt,
	}, nil
}
