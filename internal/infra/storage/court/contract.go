package court

import "github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
