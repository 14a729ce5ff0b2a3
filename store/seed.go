package store

// Seed inserts a small demo dataset in a single session.
func (s *Store) Seed() error {
	customers := []*Customer{{Name: "Ada Lovelace"}, {Name: "Grace Hopper"}, {Name: "Alan Turing"}}
	items := []*Item{
		{Name: "Laptop Backpack", Price: 49.99},
		{Name: "Insulated Coffee Mug", Price: 9.99},
		{Name: "6 Foot HDMI Cable", Price: 8.49},
	}

	return s.inSession(func(session *Session) error {
		for _, c := range customers {
			if err := session.Add(c); err != nil {
				return err
			}
		}
		for _, i := range items {
			if err := session.Add(i); err != nil {
				return err
			}
		}
		reviews := []*Review{
			{Comment: "Fits my 15 inch laptop.", CustomerID: customers[0].ID, ItemID: items[0].ID},
			{Comment: "Keeps coffee hot all morning.", CustomerID: customers[0].ID, ItemID: items[1].ID},
			{Comment: "Second mug, still great.", CustomerID: customers[0].ID, ItemID: items[1].ID},
			{Comment: "Does the job.", CustomerID: customers[1].ID, ItemID: items[2].ID},
		}
		for _, r := range reviews {
			if err := session.Add(r); err != nil {
				return err
			}
		}
		return nil
	})
}
