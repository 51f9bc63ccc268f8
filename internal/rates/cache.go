package rates

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Cache кеш таблицы курсов ЦБ РФ.
// Таблица и время загрузки заменяются только вместе, под одной блокировкой,
// поэтому читатель никогда не увидит новое время со старой таблицей.
type Cache struct {
	source TableSource
	ttl    time.Duration
	logger *logrus.Logger

	mu        sync.RWMutex
	table     Table
	fetchedAt time.Time
}

// NewCache создает новый кеш курсов
func NewCache(source TableSource, ttl time.Duration, logger *logrus.Logger) *Cache {
	return &Cache{
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// Rates возвращает таблицу курсов: из кеша, если он свежий, иначе загружает заново.
// Конкурентные вызовы во время загрузки делят один запрос к источнику.
func (c *Cache) Rates(ctx context.Context) (Table, error) {
	c.mu.RLock()
	if c.fresh() {
		table := c.table
		c.mu.RUnlock()
		return table, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Пока ждали блокировку, другой вызов мог обновить кеш
	if c.fresh() {
		return c.table, nil
	}

	table, err := c.source.FetchTable(ctx)
	if err != nil {
		return nil, err
	}

	c.table = table
	c.fetchedAt = time.Now()
	c.logger.Debugf("Rate table refreshed: %d currencies", len(table))

	return table, nil
}

// fresh проверяет актуальность кеша; вызывается под блокировкой
func (c *Cache) fresh() bool {
	return c.table != nil && time.Since(c.fetchedAt) <= c.ttl
}
