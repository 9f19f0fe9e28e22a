package model

import "fmt"

// URLs 拼接对外可访问的资源地址，Domain 以 / 结尾。
type URLs struct {
	Domain string
}

func (u URLs) Avatar(account string) string {
	return fmt.Sprintf("%sapi/users/%s/avatar", u.Domain, account)
}

func (u URLs) CoverPhoto(account string) string {
	return fmt.Sprintf("%sapi/users/%s/cover-photo", u.Domain, account)
}

func (u URLs) WorkImage(workID string) string {
	return fmt.Sprintf("%sapi/works/%s/image", u.Domain, workID)
}

func (u URLs) React(kind ReactKind, workID string) string {
	return fmt.Sprintf("%sapi/works/%s/react/%s", u.Domain, workID, kind)
}

func (u URLs) QuizImage(quizType QuizType, quizID string) string {
	return fmt.Sprintf("%sapi/quizzes/%s/%s/image", u.Domain, quizType.Slug(), quizID)
}

func (u URLs) QuestionImage(questionID string) string {
	return fmt.Sprintf("%sapi/questions/%s/image", u.Domain, questionID)
}

func (u URLs) UpdateQuestion(quizType QuizType, quizID, questionID string) string {
	return fmt.Sprintf("%sapi/quizzes/%s/%s/questions/%s", u.Domain, quizType.Slug(), quizID, questionID)
}
