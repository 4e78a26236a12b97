package models

// Category представляет категорию публикаций. После создания категория
// неизменяема, удаление наружу не выставляется.
type Category struct {
	ID   int64  // Уникальный идентификатор категории
	Name string // Название категории
}

// Author связывает публикации с учётной записью пользователя.
// Создаётся лениво при первой публикации: у каждого поста ровно один автор,
// каждый автор соответствует ровно одному пользователю.
type Author struct {
	ID      int64  // Уникальный идентификатор автора
	UserUID string // UID пользователя, которому принадлежит автор
}
