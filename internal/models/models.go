package models

// Record — запись одного из типов, хранящихся в отдельной коллекции.
type Record interface {
	Collection() string
	Model() string
}

// CollectionInfo описывает коллекцию и имя модели её документов.
type CollectionInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// Collections возвращает список коллекций, доступных через API.
func Collections() []CollectionInfo {
	return []CollectionInfo{
		{Name: News{}.Collection(), Model: News{}.Model()},
		{Name: Event{}.Collection(), Model: Event{}.Model()},
	}
}
