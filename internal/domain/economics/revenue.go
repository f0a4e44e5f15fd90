package economics

// LessonRevenue распределяет фиксированную цену пакета пропорционально
// фактически проведённым минутам: priceUnit * участники * (факт / план).
// targetMin <= 0 — у пакета нет заявленной длительности, базы для пропорции
// нет, возвращаем 0 вместо деления на ноль.
func LessonRevenue(priceUnit float64, participants int, consumedMin, targetMin int) float64 {
	if targetMin <= 0 {
		return 0
	}
	if consumedMin < 0 {
		consumedMin = 0
	}
	if participants < 1 {
		participants = 1
	}
	return priceUnit * float64(participants) * (float64(consumedMin) / float64(targetMin))
}
