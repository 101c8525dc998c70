package service

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/content"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/factory"
)

type contentStore interface {
	Get(page string) (json.RawMessage, time.Time, error)
	Put(page string, doc json.RawMessage) error
}

type ContentService struct {
	store  contentStore
	logger logrus.FieldLogger
}

func NewContentService(store contentStore) *ContentService {
	return &ContentService{
		store:  store,
		logger: factory.NewModuleLogger("content-service"),
	}
}

func (s *ContentService) GetPage(page string) (json.RawMessage, time.Time, error) {
	return s.store.Get(page)
}

func (s *ContentService) UpdatePage(page string, doc json.RawMessage) error {
	if err := s.store.Put(page, doc); err != nil {
		return err
	}
	s.logger.WithField("page", page).Info("Content page updated")
	return nil
}

func (s *ContentService) Pages() []string {
	return content.Pages
}
