package models

// Subscription представляет подписку пользователя на категорию.
// На пару (user_uid, category_id) в хранилище существует не более одной записи.
type Subscription struct {
	ID         int64  // Уникальный идентификатор подписки
	UserUID    string // UID подписанного пользователя
	CategoryID int64  // Идентификатор категории
}

// Subscriber представляет получателя уведомления: подписчика категории
// вместе с данными его учётной записи.
type Subscriber struct {
	UserUID  string // UID пользователя
	Username string // Имя пользователя
	Email    string // Электронная почта (может быть пустой — такой получатель пропускается)
}

// DigestTarget представляет одну подписку для еженедельной рассылки:
// подписчик вместе с категорией, по которой собирается дайджест.
type DigestTarget struct {
	UserUID      string // UID пользователя
	Username     string // Имя пользователя
	Email        string // Электронная почта
	CategoryID   int64  // Идентификатор категории подписки
	CategoryName string // Название категории
}
