package extract

import "errors"

// ErrTableNotFound indicates no table on the page qualifies as the soybean table.
var ErrTableNotFound = errors.New("tabela de soja não encontrada (layout pode ter mudado)")

// ErrDateUnresolved indicates no "as of" date was found near the table.
var ErrDateUnresolved = errors.New("data da cotação não encontrada perto da tabela")
