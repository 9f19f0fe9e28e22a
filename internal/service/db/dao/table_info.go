package dao

const (
	// CollectionUser 存储账号信息的表。
	CollectionUser = "users"
	// CollectionAccountToken 存储已登录用户的表。
	CollectionAccountToken = "account_token"

	// CollectionClass 班级。
	CollectionClass = "classes"

	CollectionQuiz        = "quizzes"
	CollectionQuestion    = "questions"
	CollectionStudentWork = "student_works"

	// CollectionAsset 直接存入数据库的图片。
	CollectionAsset = "assets"

	TaskCollection = "task_results"

	// ActionCollection 全局日志流水
	ActionCollection = "actions"
)
