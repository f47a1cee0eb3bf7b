package category

import "context"

type StubRepo struct {
	nextId int
	data   map[int]Category
}

func NewStubRepo() *StubRepo {
	return &StubRepo{nextId: 0, data: map[int]Category{}}
}

func (s *StubRepo) Store(ctx context.Context, userId int, category Category) (int, error) {
	s.nextId++
	category.Id = s.nextId
	s.data[category.Id] = category
	return category.Id, nil
}

func (s *StubRepo) Get(ctx context.Context, userId int, id int) (Category, error) {
	category, ok := s.data[id]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return category, nil
}

func (s *StubRepo) GetAll(ctx context.Context, userId int, kind Kind) ([]Category, error) {
	categories := make([]Category, 0, len(s.data))
	for _, category := range s.data {
		if kind == "" || category.Kind == kind {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func (s *StubRepo) Update(ctx context.Context, userId int, category Category) (bool, error) {
	if _, ok := s.data[category.Id]; !ok {
		return false, nil
	}
	s.data[category.Id] = category
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, userId int, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) Cleanup() {
	s.data = map[int]Category{}
}
