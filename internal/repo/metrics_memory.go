package repo

type InMemoryMetricsRepository struct {
	machineRepo     MachineRepository
	productRepo     ProductRepository
	transactionRepo TransactionRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	machineRepo MachineRepository,
	productRepo ProductRepository,
	transactionRepo TransactionRepository,
) {
	i.machineRepo = machineRepo
	i.productRepo = productRepo
	i.transactionRepo = transactionRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	m := Metrics{}

	machines, err := i.machineRepo.GetAll()
	if err != nil {
		return m, err
	}
	m.TotalMachines = len(machines)

	for _, machine := range machines {
		for _, row := range machine.Current.Slots {
			for _, slot := range row {
				if slot.Product != nil && slot.Quantity == 0 {
					m.SoldOutSlotCount++
				}
			}
		}
	}

	products, err := i.productRepo.GetAll()
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	counts, err := i.transactionRepo.CountByProduct()
	if err != nil {
		return m, err
	}
	for _, count := range counts {
		m.TotalTransactions += count
	}
	// Products come back in ascending ID order, so the lowest ID wins a
	// tie on purchase count.
	for _, p := range products {
		if count := counts[p.ID]; count > m.MostPurchasedProduct.PurchaseCount {
			m.MostPurchasedProduct.Name = p.Name
			m.MostPurchasedProduct.PurchaseCount = count
		}
	}

	return m, nil
}
