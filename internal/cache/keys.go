package cache

// Пространство ключей: сущность и форма запроса, без параметров страницы/фильтров.
// Пагинация применяется вызывающим кодом к закэшированному полному списку.
const (
	// KeyActiveOrders — все активные заказы.
	KeyActiveOrders = "O"
	// KeyAllUsers — все пользователи.
	KeyAllUsers = "U"
)

// OrderKey — один заказ: O:<id>.
func OrderKey(id string) string { return KeyActiveOrders + ":" + id }

// UserKey — профиль пользователя: U:<id>.
func UserKey(id string) string { return KeyAllUsers + ":" + id }

// UserCreatedKey — заказы, созданные пользователем: U:<id>:C.
func UserCreatedKey(id string) string { return UserKey(id) + ":C" }

// UserAcceptedKey — заказы, принятые пользователем: U:<id>:A.
func UserAcceptedKey(id string) string { return UserKey(id) + ":A" }

// UserActivityKey — общая лента активности пользователя: U:<id>:H.
func UserActivityKey(id string) string { return UserKey(id) + ":H" }
