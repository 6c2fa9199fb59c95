// Package fuzztests houses Go fuzz harnesses for the JSON and JavaScript
// front ends (text -> lexer -> parser -> lossless tree). They guard against
// panics, hangs and trees that lose or reorder source bytes on arbitrary
// inputs.
//
// Назначение: гонять произвольные байты через лексеры и парсеры и проверять
// инварианты дерева через internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, запуск правил.
//
// Зависимости: internal/lang/js, internal/lang/json, internal/lexer,
// internal/testkit.
package fuzztests
