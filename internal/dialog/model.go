package dialog

type State string

const (
	// Регистрация
	StateIdle         State = "idle"
	StateAwaitFIO     State = "await_fio"
	StateAwaitConfirm State = "await_confirm"

	// Брони (админ)
	StateBookingsList State = "bookings_list" // список букингов
	StateBookingCard  State = "booking_card"  // карточка: деньги + индикатор готовности

	// Занятия инструктора
	StateMyLessons       State = "my_lessons"
	StateEventPickStatus State = "event_pick_status" // отметка результата события

	// Статистика (админ)
	StateStatsMenu State = "stats_menu"

	// Создание пакета (админ): название → цена → плановые минуты
	StatePkgName   State = "pkg_name"
	StatePkgPrice  State = "pkg_price"
	StatePkgTarget State = "pkg_target"

	// Новая бронь (админ): пакет выбирается кнопкой, дальше текстом
	StateBookContact      State = "book_contact"
	StateBookParticipants State = "book_participants"
	StateBookReferral     State = "book_referral" // код или «-»

	// Новое событие в занятии: ввод длительности в минутах
	StateEventDuration State = "event_duration"

	// Деньги: оплата по букингу и выплата инструктору
	StatePayAmount    State = "pay_amount"
	StatePayoutAmount State = "payout_amount"

	// Справочники: реферальный код и ставка инструктора
	StateRefNew    State = "ref_new"    // «КОД fixed 20» / «КОД percentage 25»
	StateInstrRate State = "instr_rate" // «fixed 20» / «percentage 25»
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
