package telegram

const (
	msgWelcome = `👋 <b>Welcome to TechQuest!</b>

Learn the basics of a tech role through short courses, keep a daily streak and collect trophies along the way.

/learn: pick a role and start a course
/progress: your overall progress
/streak: your daily streak
/trophies: earned and locked trophies
/friends: your friends and your friend code
/leaderboard: top learners
/barriers: advice on breaking into tech
/pathmatch: how your experience maps to a role
/help: all commands`

	msgHelp = `<b>Commands</b>

/learn: pick a role and start a course
/progress: your overall progress
/streak: your daily streak
/trophies: earned and locked trophies
/friends: your friends and your friend code
/addfriend CODE: add a friend by code
/removefriend CODE: remove a friend
/leaderboard [streak|trophies|courses]: top learners
/barriers YOUR BACKGROUND: advice on breaking into tech
/pathmatch ROLE | EXPERIENCE | SKILLS: skills gap analysis`

	msgFriendCode = "\n\nYour friend code: <code>%s</code>"

	msgUnknownCommand  = "🤔 Unknown command. Try /help."
	msgInternalError   = "❌ Something went wrong. Please try again later."
	msgNotFound        = "🔍 Nothing found."
	msgChooseRole      = "🧭 <b>Choose a role</b>"
	msgNoRoles         = "📭 No courses are available yet."
	msgAnswerCorrect   = "✅ <b>Correct!</b>"
	msgAnswerWrong     = "❌ <b>Not quite.</b> Try again."
	msgCourseReset     = "🔄 Progress reset. Let's go again!"
	msgAddFriendUsage  = "Usage: /addfriend CODE"
	msgRemoveUsage     = "Usage: /removefriend CODE"
	msgNoFriends       = "You have no friends here yet. Share your code so others can add you."
	msgBarriersUsage   = "Tell me a bit about yourself, for example:\n/barriers I am a 45 year old nurse with dyslexia"
	msgPathMatchUsage  = "Usage: /pathmatch ROLE | EXPERIENCE | SKILLS\nFor example:\n/pathmatch Data Analyst | 5 years in retail management | Excel, reporting"
	msgAdviceDisabled  = "🙈 Career advice is not available right now."
	msgAdviceBusy      = "⏳ The advisor is busy. Please try again in a minute."
	msgLeaderboardHead = "🏆 <b>Leaderboard: %s</b>"
	msgNoLeaders       = "Nobody is on this board yet."
	msgStreakReminder  = "⏰ Your %d-day streak ends today! Finish a course to keep it going: /learn"
)
