// Package student содержит доменную модель учебного реестра студентов.
//
// Это ядро бизнес-логики консольного менеджера реестра. Пакет определяет:
//
//   - Сущности (Entities): Student, Course
//   - Агрегат: Roster - единственный владелец всех студентов
//   - Валидаторы полей: ValidateName, ValidateEmail, ValidateAge и др.
//   - Снимки состояния (Snapshot) и интерфейсы границ: Store, AuditLogger
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - интерфейсы Store и AuditLogger реализуются в infrastructure
//  3. Rich Domain Model - вся валидация полей выполняется внутри мутаторов модели
//
// # Инварианты
//
// Средний балл (GPA) студента всегда равен взвешенному по кредитам среднему
// grade point его курсов (или 0.0, если курсов нет) и пересчитывается синхронно
// после каждого изменения списка курсов.
//
// Идентификаторы выдаются реестром: "STU" + порядковый номер, начиная с 1001.
// Счётчик только растёт, поэтому удалённый ID не выдаётся повторно.
//
// # Пример использования
//
//	roster := NewRoster()
//
//	id, err := roster.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
//	if err != nil {
//	    return err
//	}
//
//	// Назначение курса пересчитывает GPA
//	if err := roster.AssignCourse(id, "CS101", "Intro to CS", 3, 95); err != nil {
//	    return err
//	}
//
//	s, _ := roster.GetStudent(id) // копия, изменения не влияют на реестр
//	fmt.Printf("%.2f\n", s.GPA())
//
// Реестр защищён одним мьютексом, поэтому генерация ID атомарна даже при
// конкурентных вызовах. Доступ к данным снаружи возможен только через копии.
package student
